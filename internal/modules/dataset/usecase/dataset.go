package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"eqviz/internal/modules/dataset/domain"
	"eqviz/internal/modules/dataset/dto"
	datasetin "eqviz/internal/modules/dataset/port/in"
	datasetout "eqviz/internal/modules/dataset/port/out"
	"eqviz/internal/modules/dataset/service"
	apperrors "eqviz/internal/platform/errors"
)

// Interactor orchestrates the dataset resources. Every operation reads the
// token through the session port; an auth-expired rejection from any of
// them routes through the session cleanup before it is returned.
type Interactor struct {
	svc     *service.DatasetService
	api     datasetout.API
	reports datasetout.ReportWriter
	tokens  datasetout.TokenSource
	session datasetout.SessionSink
}

func NewInteractor(
	svc *service.DatasetService,
	api datasetout.API,
	reports datasetout.ReportWriter,
	tokens datasetout.TokenSource,
	session datasetout.SessionSink,
) datasetin.Usecase {
	return &Interactor{svc: svc, api: api, reports: reports, tokens: tokens, session: session}
}

func (i *Interactor) ValidateCSVName(filename string) error {
	return i.svc.ValidateCSVName(filename)
}

func (i *Interactor) List(ctx context.Context) ([]dto.SummaryOutput, error) {
	token, err := i.token(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := i.api.List(ctx, token)
	if err != nil {
		return nil, i.checkExpired(ctx, err)
	}
	out := make([]dto.SummaryOutput, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryOutput(s))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id int) (dto.DetailOutput, error) {
	token, err := i.token(ctx)
	if err != nil {
		return dto.DetailOutput{}, err
	}
	detail, err := i.api.Get(ctx, token, id)
	if err != nil {
		return dto.DetailOutput{}, i.checkExpired(ctx, err)
	}
	return detailOutput(detail), nil
}

func (i *Interactor) Upload(ctx context.Context, input dto.UploadInput) (dto.UploadOutput, error) {
	if err := i.svc.ValidateCSVName(input.Path); err != nil {
		return dto.UploadOutput{}, err
	}
	token, err := i.token(ctx)
	if err != nil {
		return dto.UploadOutput{}, err
	}
	f, err := os.Open(input.Path)
	if err != nil {
		return dto.UploadOutput{}, apperrors.Validation(fmt.Sprintf("cannot read %s", input.Path))
	}
	defer f.Close()

	detail, err := i.api.Upload(ctx, token, filepath.Base(input.Path), f)
	if err != nil {
		return dto.UploadOutput{}, i.checkExpired(ctx, err)
	}
	return dto.UploadOutput{ID: detail.ID, Filename: detail.Filename, TotalCount: detail.TotalCount}, nil
}

func (i *Interactor) Delete(ctx context.Context, id int) error {
	token, err := i.token(ctx)
	if err != nil {
		return err
	}
	if err := i.api.Delete(ctx, token, id); err != nil {
		return i.checkExpired(ctx, err)
	}
	return nil
}

func (i *Interactor) SaveReport(ctx context.Context, id int) (dto.ReportOutput, error) {
	token, err := i.token(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	// The stored filename names the report; the detail fetch is also a cheap
	// existence check before pulling the binary.
	detail, err := i.api.Get(ctx, token, id)
	if err != nil {
		return dto.ReportOutput{}, i.checkExpired(ctx, err)
	}
	payload, err := i.api.Report(ctx, token, id)
	if err != nil {
		return dto.ReportOutput{}, i.checkExpired(ctx, err)
	}
	path, pages, err := i.reports.Write(detail.Filename, payload)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Path: path, Pages: pages}, nil
}

func (i *Interactor) token(_ context.Context) (string, error) {
	token, ok := i.tokens.Token()
	if !ok {
		return "", apperrors.ErrNoToken
	}
	return token, nil
}

// checkExpired funnels auth-expired rejections through the session cleanup
// so no caller can end up "logged in but broken".
func (i *Interactor) checkExpired(ctx context.Context, err error) error {
	if apperrors.IsAuthExpired(err) && i.session != nil {
		_ = i.session.Expire(ctx)
	}
	return err
}

func summaryOutput(s domain.Summary) dto.SummaryOutput {
	return dto.SummaryOutput{
		ID:               s.ID,
		Filename:         s.Filename,
		UploadDate:       s.UploadDate,
		TotalCount:       s.TotalCount,
		AvgFlowrate:      s.AvgFlowrate,
		AvgPressure:      s.AvgPressure,
		AvgTemperature:   s.AvgTemperature,
		TypeDistribution: s.TypeDistribution,
	}
}

func detailOutput(d domain.Detail) dto.DetailOutput {
	equipment := make([]dto.EquipmentOutput, 0, len(d.Equipment))
	for _, e := range d.Equipment {
		equipment = append(equipment, dto.EquipmentOutput{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			Flowrate:    e.Flowrate,
			Pressure:    e.Pressure,
			Temperature: e.Temperature,
		})
	}
	return dto.DetailOutput{SummaryOutput: summaryOutput(d.Summary), Equipment: equipment}
}
