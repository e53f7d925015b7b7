package service

import (
	"strings"

	"eqviz/internal/modules/auth/dto"
	apperrors "eqviz/internal/platform/errors"
)

// AuthService holds the client-side credential checks that must run before
// any network call.
type AuthService struct{}

func NewAuthService() *AuthService { return &AuthService{} }

func (s *AuthService) ValidateLogin(input dto.LoginInput) error {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return apperrors.Validation("username and password are required")
	}
	return nil
}

func (s *AuthService) ValidateRegister(input dto.RegisterInput) error {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return apperrors.Validation("username and password are required")
	}
	if input.Password != input.ConfirmPassword {
		return apperrors.Validation("passwords do not match")
	}
	return nil
}
