package in

import (
	"context"

	"eqviz/internal/modules/auth/dto"
	authin "eqviz/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, username, email, password, confirm string) (dto.SessionOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
}

func (h CLIHandler) Whoami(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	// Headless logout still needs the token in memory first; a failed
	// restore just means there is nothing to revoke server-side.
	_, _ = h.usecase.Restore(ctx)
	return h.usecase.Logout(ctx)
}
