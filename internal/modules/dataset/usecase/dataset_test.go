package usecase_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"eqviz/internal/modules/dataset/domain"
	"eqviz/internal/modules/dataset/dto"
	"eqviz/internal/modules/dataset/service"
	"eqviz/internal/modules/dataset/usecase"
	apperrors "eqviz/internal/platform/errors"
)

type fakeAPI struct {
	listCalls   int
	uploadCalls int
	uploadName  string
	uploadBody  string
	deletedID   int

	summaries []domain.Summary
	detail    domain.Detail
	report    []byte
	err       error
}

func (f *fakeAPI) List(_ context.Context, _ string) ([]domain.Summary, error) {
	f.listCalls++
	return f.summaries, f.err
}
func (f *fakeAPI) Get(_ context.Context, _ string, _ int) (domain.Detail, error) {
	return f.detail, f.err
}
func (f *fakeAPI) Upload(_ context.Context, _ string, filename string, r io.Reader) (domain.Detail, error) {
	f.uploadCalls++
	f.uploadName = filename
	body, _ := io.ReadAll(r)
	f.uploadBody = string(body)
	return f.detail, f.err
}
func (f *fakeAPI) Delete(_ context.Context, _ string, id int) error {
	f.deletedID = id
	return f.err
}
func (f *fakeAPI) Report(_ context.Context, _ string, _ int) ([]byte, error) {
	return f.report, f.err
}

type fakeReportWriter struct {
	filename string
	payload  []byte
}

func (f *fakeReportWriter) Write(datasetFilename string, payload []byte) (string, int, error) {
	f.filename = datasetFilename
	f.payload = payload
	return "/reports/report_" + datasetFilename + ".pdf", 2, nil
}

type fakeTokens struct {
	token string
}

func (f fakeTokens) Token() (string, bool) { return f.token, f.token != "" }

type fakeSession struct {
	expired int
}

func (f *fakeSession) Expire(context.Context) error {
	f.expired++
	return nil
}

func uploadInput(path string) dto.UploadInput {
	return dto.UploadInput{Path: path}
}

func TestUploadRejectsNonCSVBeforeAnyNetworkCall(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, &fakeSession{})

	_, err := uc.Upload(context.Background(), uploadInput("equipment.xlsx"))
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
	if api.uploadCalls != 0 {
		t.Fatalf("invalid extension must not reach the API")
	}
}

func TestUploadSendsBaseNameAndFileBody(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "plant_a.csv")
	if err := os.WriteFile(path, []byte("Equipment Name,Type\nPump-1,Pump\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	api := &fakeAPI{detail: domain.Detail{Summary: domain.Summary{ID: 3, Filename: "plant_a.csv", TotalCount: 1}}}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, &fakeSession{})

	out, err := uc.Upload(context.Background(), uploadInput(path))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if api.uploadName != "plant_a.csv" {
		t.Fatalf("upload must send the base name, sent %q", api.uploadName)
	}
	if api.uploadBody == "" {
		t.Fatalf("upload must stream the file body")
	}
	if out.ID != 3 || out.TotalCount != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestUploadUnreadableFileIsAValidationError(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, &fakeSession{})

	_, err := uc.Upload(context.Background(), uploadInput(filepath.Join(t.TempDir(), "missing.csv")))
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("want validation error for unreadable file, got %v", err)
	}
	if api.uploadCalls != 0 {
		t.Fatalf("unreadable file must not reach the API")
	}
}

func TestOperationsWithoutTokenFailFast(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{}, &fakeSession{})

	if _, err := uc.List(context.Background()); !errors.Is(err, apperrors.ErrNoToken) {
		t.Fatalf("want ErrNoToken, got %v", err)
	}
	if api.listCalls != 0 {
		t.Fatalf("missing token must not reach the API")
	}
}

func TestDeletePassesTheID(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, &fakeSession{})

	if err := uc.Delete(context.Background(), 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if api.deletedID != 42 {
		t.Fatalf("want delete of 42, got %d", api.deletedID)
	}
}

func TestSaveReportNamesTheFileAfterTheDataset(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		detail: domain.Detail{Summary: domain.Summary{ID: 5, Filename: "batch.csv"}},
		report: []byte("%PDF-1.4 fake"),
	}
	reports := &fakeReportWriter{}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, reports, fakeTokens{token: "tok"}, &fakeSession{})

	out, err := uc.SaveReport(context.Background(), 5)
	if err != nil {
		t.Fatalf("save report: %v", err)
	}
	if reports.filename != "batch.csv" {
		t.Fatalf("writer must receive the dataset filename, got %q", reports.filename)
	}
	if string(reports.payload) != "%PDF-1.4 fake" {
		t.Fatalf("writer must receive the downloaded payload")
	}
	if out.Pages != 2 {
		t.Fatalf("unexpected pages %d", out.Pages)
	}
}

func TestAuthExpiredCollapsesTheSession(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	api := &fakeAPI{err: apperrors.AuthExpired()}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, session)

	_, err := uc.List(context.Background())
	if !apperrors.IsAuthExpired(err) {
		t.Fatalf("want auth-expired, got %v", err)
	}
	if session.expired != 1 {
		t.Fatalf("auth-expired must trigger session cleanup, saw %d", session.expired)
	}
}

func TestServerErrorsDoNotTouchTheSession(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	api := &fakeAPI{err: apperrors.ServerRejected("missing required columns")}
	uc := usecase.NewInteractor(service.NewDatasetService(), api, &fakeReportWriter{}, fakeTokens{token: "tok"}, session)

	if _, err := uc.List(context.Background()); err == nil {
		t.Fatalf("want server error")
	}
	if session.expired != 0 {
		t.Fatalf("non-auth errors must leave the session alone")
	}
}
