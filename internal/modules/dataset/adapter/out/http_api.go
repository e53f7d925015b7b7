package out

import (
	"context"
	"fmt"
	"io"

	"eqviz/internal/modules/dataset/domain"
	datasetout "eqviz/internal/modules/dataset/port/out"
	"eqviz/internal/platform/rest"
)

// HTTPAPI talks to the backend's /datasets endpoints.
type HTTPAPI struct {
	client *rest.Client
}

func NewHTTPAPI(client *rest.Client) datasetout.API {
	return &HTTPAPI{client: client}
}

func (a *HTTPAPI) List(ctx context.Context, token string) ([]domain.Summary, error) {
	var summaries []domain.Summary
	if err := a.client.GetJSON(ctx, token, "/datasets/", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (a *HTTPAPI) Get(ctx context.Context, token string, id int) (domain.Detail, error) {
	var detail domain.Detail
	if err := a.client.GetJSON(ctx, token, fmt.Sprintf("/datasets/%d/", id), &detail); err != nil {
		return domain.Detail{}, err
	}
	return detail, nil
}

func (a *HTTPAPI) Upload(ctx context.Context, token, filename string, r io.Reader) (domain.Detail, error) {
	var detail domain.Detail
	if err := a.client.PostMultipart(ctx, token, "/datasets/upload/", "file", filename, r, &detail); err != nil {
		return domain.Detail{}, err
	}
	return detail, nil
}

func (a *HTTPAPI) Delete(ctx context.Context, token string, id int) error {
	return a.client.Delete(ctx, token, fmt.Sprintf("/datasets/%d/delete/", id))
}

func (a *HTTPAPI) Report(ctx context.Context, token string, id int) ([]byte, error) {
	return a.client.GetBytes(ctx, token, fmt.Sprintf("/datasets/%d/report/", id))
}
