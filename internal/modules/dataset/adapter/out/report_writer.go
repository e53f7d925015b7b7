package out

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"rsc.io/pdf"

	datasetout "eqviz/internal/modules/dataset/port/out"
	"eqviz/internal/modules/dataset/service"
	apperrors "eqviz/internal/platform/errors"
)

// FileReportWriter saves report payloads into the configured download
// directory, refusing anything that does not parse as a PDF.
type FileReportWriter struct {
	dir string
	svc *service.DatasetService
}

func NewFileReportWriter(dir string, svc *service.DatasetService) datasetout.ReportWriter {
	return &FileReportWriter{dir: dir, svc: svc}
}

func (w *FileReportWriter) Write(datasetFilename string, payload []byte) (string, int, error) {
	doc, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", 0, apperrors.ServerRejected("report payload is not a valid PDF")
	}
	pages := doc.NumPage()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create download directory: %w", err)
	}
	path := filepath.Join(w.dir, w.svc.ReportFilename(datasetFilename))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", 0, fmt.Errorf("write report: %w", err)
	}
	return path, pages, nil
}
