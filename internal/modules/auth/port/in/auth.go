package in

import (
	"context"

	"eqviz/internal/modules/auth/dto"
)

type Usecase interface {
	// Restore loads the persisted token, validates it with one whoami call,
	// and populates the session. Returns apperrors.ErrNoToken without any
	// network traffic when nothing is persisted.
	Restore(ctx context.Context) (dto.SessionOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error)
	// Logout notifies the backend best-effort and always clears local state.
	Logout(ctx context.Context) error
	// Expire is the cleanup path for rejected tokens: clears local state
	// without a server call.
	Expire(ctx context.Context) error
	// Current returns the in-memory session, if any.
	Current() (dto.SessionOutput, bool)
	// Token exposes the raw token to other modules' outbound calls.
	Token() (string, bool)
}
