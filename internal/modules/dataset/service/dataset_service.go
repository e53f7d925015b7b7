package service

import (
	"path/filepath"
	"strings"

	apperrors "eqviz/internal/platform/errors"
)

// DatasetService holds the pure dataset rules: the pre-network filename
// check and the report naming convention.
type DatasetService struct{}

func NewDatasetService() *DatasetService { return &DatasetService{} }

// ValidateCSVName rejects anything that is not a .csv file before a single
// byte goes over the wire. Content validation is the server's job.
func (s *DatasetService) ValidateCSVName(path string) error {
	name := filepath.Base(path)
	if name == "" || name == "." {
		return apperrors.Validation("please select a file")
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return apperrors.Validation("please select a valid CSV file")
	}
	return nil
}

// ReportFilename derives the saved report's name from the dataset's stored
// filename, matching the backend's attachment naming.
func (s *DatasetService) ReportFilename(datasetFilename string) string {
	return "report_" + datasetFilename + ".pdf"
}
