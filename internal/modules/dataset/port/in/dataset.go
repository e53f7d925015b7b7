package in

import (
	"context"

	"eqviz/internal/modules/dataset/dto"
)

type Usecase interface {
	// ValidateCSVName checks the file name client-side so the UI can reject
	// non-CSV selections before any network work.
	ValidateCSVName(filename string) error
	// List returns the newest-first, server-capped dataset summaries.
	List(ctx context.Context) ([]dto.SummaryOutput, error)
	Get(ctx context.Context, id int) (dto.DetailOutput, error)
	// Upload validates the filename extension locally, then streams the file
	// as multipart form data.
	Upload(ctx context.Context, input dto.UploadInput) (dto.UploadOutput, error)
	Delete(ctx context.Context, id int) error
	// SaveReport downloads the generated PDF and writes it to the download
	// directory under a name derived from the dataset's stored filename.
	SaveReport(ctx context.Context, id int) (dto.ReportOutput, error)
}
