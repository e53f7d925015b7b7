package in

import (
	"context"

	"eqviz/internal/modules/dataset/dto"
	datasetin "eqviz/internal/modules/dataset/port/in"
)

type CLIHandler struct {
	usecase datasetin.Usecase
}

func NewCLIHandler(usecase datasetin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.SummaryOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id int) (dto.DetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Upload(ctx context.Context, path string) (dto.UploadOutput, error) {
	return h.usecase.Upload(ctx, dto.UploadInput{Path: path})
}

func (h CLIHandler) Delete(ctx context.Context, id int) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) SaveReport(ctx context.Context, id int) (dto.ReportOutput, error) {
	return h.usecase.SaveReport(ctx, id)
}
