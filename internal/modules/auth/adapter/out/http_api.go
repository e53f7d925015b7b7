package out

import (
	"context"

	"eqviz/internal/modules/auth/domain"
	authout "eqviz/internal/modules/auth/port/out"
	"eqviz/internal/platform/rest"
)

// HTTPAPI talks to the backend's /auth endpoints.
type HTTPAPI struct {
	client *rest.Client
}

func NewHTTPAPI(client *rest.Client) authout.API {
	return &HTTPAPI{client: client}
}

func (a *HTTPAPI) Register(ctx context.Context, username, email, password string) (domain.Credentials, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var creds domain.Credentials
	if err := a.client.PostJSON(ctx, "", "/auth/register/", body, &creds); err != nil {
		return domain.Credentials{}, err
	}
	return creds, nil
}

func (a *HTTPAPI) Login(ctx context.Context, username, password string) (domain.Credentials, error) {
	body := map[string]string{"username": username, "password": password}
	var creds domain.Credentials
	if err := a.client.PostJSON(ctx, "", "/auth/login/", body, &creds); err != nil {
		return domain.Credentials{}, err
	}
	return creds, nil
}

func (a *HTTPAPI) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	if err := a.client.GetJSON(ctx, token, "/auth/user/", &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (a *HTTPAPI) Logout(ctx context.Context, token string) error {
	return a.client.PostJSON(ctx, token, "/auth/logout/", struct{}{}, nil)
}
