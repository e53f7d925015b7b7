package out

import (
	"context"
	"io"

	"eqviz/internal/modules/dataset/domain"
)

type API interface {
	List(ctx context.Context, token string) ([]domain.Summary, error)
	Get(ctx context.Context, token string, id int) (domain.Detail, error)
	Upload(ctx context.Context, token, filename string, r io.Reader) (domain.Detail, error)
	Delete(ctx context.Context, token string, id int) error
	Report(ctx context.Context, token string, id int) ([]byte, error)
}

// ReportWriter persists a downloaded report payload and reports where it
// went and how many pages it holds.
type ReportWriter interface {
	Write(datasetFilename string, payload []byte) (path string, pages int, err error)
}

// TokenSource is the dataset module's read-only view of the session. The
// token is mutated exclusively by the auth module.
type TokenSource interface {
	Token() (string, bool)
}

// SessionSink is the cleanup hook invoked when the backend rejects the
// token mid-operation.
type SessionSink interface {
	Expire(ctx context.Context) error
}
