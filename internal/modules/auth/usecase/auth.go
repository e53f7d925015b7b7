package usecase

import (
	"context"
	"sync"

	"eqviz/internal/modules/auth/domain"
	"eqviz/internal/modules/auth/dto"
	authin "eqviz/internal/modules/auth/port/in"
	authout "eqviz/internal/modules/auth/port/out"
	"eqviz/internal/modules/auth/service"
)

// Interactor owns the session lifecycle. It is the only place that mutates
// session state; every other module reads the token through the in-port.
type Interactor struct {
	svc    *service.AuthService
	api    authout.API
	tokens authout.TokenStore

	mu      sync.Mutex
	session domain.Session
	ok      bool
}

func NewInteractor(svc *service.AuthService, api authout.API, tokens authout.TokenStore) authin.Usecase {
	return &Interactor{svc: svc, api: api, tokens: tokens}
}

func (i *Interactor) Restore(ctx context.Context) (dto.SessionOutput, error) {
	token, err := i.tokens.Load()
	if err != nil {
		return dto.SessionOutput{}, err
	}
	user, err := i.api.CurrentUser(ctx, token)
	if err != nil {
		// A token the server no longer honors (or one we cannot verify)
		// must not survive the attempt.
		_ = i.tokens.Clear()
		return dto.SessionOutput{}, err
	}
	i.set(domain.Session{Token: token, User: user})
	return output(user), nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	if err := i.svc.ValidateLogin(input); err != nil {
		return dto.SessionOutput{}, err
	}
	creds, err := i.api.Login(ctx, input.Username, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.accept(creds)
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error) {
	if err := i.svc.ValidateRegister(input); err != nil {
		return dto.SessionOutput{}, err
	}
	creds, err := i.api.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.accept(creds)
}

func (i *Interactor) Logout(ctx context.Context) error {
	token, ok := i.Token()
	if ok {
		// Best effort: a dead server must not leave the user holding a
		// token they believe is revoked.
		_ = i.api.Logout(ctx, token)
	}
	return i.Expire(ctx)
}

func (i *Interactor) Expire(_ context.Context) error {
	i.mu.Lock()
	i.session = domain.Session{}
	i.ok = false
	i.mu.Unlock()
	return i.tokens.Clear()
}

func (i *Interactor) Current() (dto.SessionOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ok {
		return dto.SessionOutput{}, false
	}
	return output(i.session.User), true
}

func (i *Interactor) Token() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.session.Token, i.ok
}

func (i *Interactor) accept(creds domain.Credentials) (dto.SessionOutput, error) {
	if err := i.tokens.Save(creds.Token); err != nil {
		return dto.SessionOutput{}, err
	}
	i.set(domain.Session{Token: creds.Token, User: creds.User})
	return output(creds.User), nil
}

func (i *Interactor) set(s domain.Session) {
	i.mu.Lock()
	i.session = s
	i.ok = true
	i.mu.Unlock()
}

func output(user domain.User) dto.SessionOutput {
	return dto.SessionOutput{Username: user.Username, Email: user.Email}
}
