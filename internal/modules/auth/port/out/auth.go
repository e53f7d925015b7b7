package out

import (
	"context"

	"eqviz/internal/modules/auth/domain"
)

type API interface {
	Register(ctx context.Context, username, email, password string) (domain.Credentials, error)
	Login(ctx context.Context, username, password string) (domain.Credentials, error)
	CurrentUser(ctx context.Context, token string) (domain.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore persists the one value that survives restarts.
type TokenStore interface {
	Save(token string) error
	Load() (string, error) // apperrors.ErrNoToken when absent
	Clear() error
}
