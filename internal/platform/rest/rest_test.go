package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	apperrors "eqviz/internal/platform/errors"
	"eqviz/internal/platform/rest"
)

func newBackend(t *testing.T, register func(r *mux.Router)) *rest.Client {
	t.Helper()
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return rest.New(srv.URL, "Token", srv.Client())
}

func TestGetJSONSetsTheAuthorizationHeader(t *testing.T) {
	t.Parallel()
	var gotAuth string
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/datasets/", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}).Methods(http.MethodGet)
	})

	var out []any
	if err := client.GetJSON(context.Background(), "tok-1", "/datasets/", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Token tok-1" {
		t.Fatalf("want Token scheme header, got %q", gotAuth)
	}
}

func TestNoHeaderWithoutToken(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var sawHeader bool
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login/", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			_, sawHeader = req.Header["Authorization"]
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"t"}`))
		}).Methods(http.MethodPost)
	})

	var out struct {
		Token string `json:"token"`
	}
	if err := client.PostJSON(context.Background(), "", "/auth/login/", map[string]string{"username": "a"}, &out); err != nil {
		t.Fatalf("post: %v", err)
	}
	if sawHeader {
		t.Fatalf("anonymous call must not carry Authorization, got %q", gotAuth)
	}
	if out.Token != "t" {
		t.Fatalf("response not decoded, got %+v", out)
	}
}

func TestUnauthorizedMapsToAuthExpired(t *testing.T) {
	t.Parallel()
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := newBackend(t, func(r *mux.Router) {
			r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"detail":"Invalid token."}`, status)
			})
		})
		err := client.GetJSON(context.Background(), "tok-dead", "/datasets/", &struct{}{})
		if !apperrors.IsAuthExpired(err) {
			t.Fatalf("status %d: want auth-expired, got %v", status, err)
		}
		if msg := apperrors.Message(err); msg != "session expired, please log in again" {
			t.Fatalf("status %d: unexpected message %q", status, msg)
		}
	}
}

func TestAnonymousUnauthorizedKeepsTheServerMessage(t *testing.T) {
	t.Parallel()
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Invalid credentials"}`))
		}).Methods(http.MethodPost)
	})

	err := client.PostJSON(context.Background(), "", "/auth/login/", map[string]string{"username": "a", "password": "nope"}, nil)
	if apperrors.IsAuthExpired(err) {
		t.Fatalf("a rejected login is not an expired session: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindServerRejected {
		t.Fatalf("want server-rejected, got %v", err)
	}
	if msg := apperrors.Message(err); msg != "Invalid credentials" {
		t.Fatalf("want the server's message verbatim, got %q", msg)
	}
}

func TestErrorBodyMessageIsExtracted(t *testing.T) {
	t.Parallel()
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/datasets/upload/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "CSV file is missing required columns"}`))
		}).Methods(http.MethodPost)
	})

	err := client.PostJSON(context.Background(), "tok", "/datasets/upload/", nil, nil)
	if apperrors.KindOf(err) != apperrors.KindServerRejected {
		t.Fatalf("want server-rejected, got %v", err)
	}
	if msg := apperrors.Message(err); msg != "CSV file is missing required columns" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestFieldErrorMapIsJoinedSorted(t *testing.T) {
	t.Parallel()
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/auth/register/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"username": ["already taken"], "email": ["invalid", "required"]}`))
		}).Methods(http.MethodPost)
	})

	err := client.PostJSON(context.Background(), "", "/auth/register/", map[string]string{}, nil)
	want := "email: invalid, required; username: already taken"
	if msg := apperrors.Message(err); msg != want {
		t.Fatalf("want %q, got %q", want, msg)
	}
}

func TestTransportFailureMapsToNetwork(t *testing.T) {
	t.Parallel()
	// A server that is already closed guarantees a connection error.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := rest.New(url, "Token", nil)

	err := client.GetJSON(context.Background(), "tok", "/datasets/", &struct{}{})
	if apperrors.KindOf(err) != apperrors.KindNetwork {
		t.Fatalf("want network error, got %v", err)
	}
	if msg := apperrors.Message(err); msg != "network error, please try again" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGetBytesReturnsRawPayload(t *testing.T) {
	t.Parallel()
	payload := []byte("%PDF-1.4 raw bytes")
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/datasets/{id}/report/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(payload)
		}).Methods(http.MethodGet)
	})

	got, err := client.GetBytes(context.Background(), "tok", "/datasets/9/report/")
	if err != nil {
		t.Fatalf("get bytes: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestMalformedSuccessBodyIsServerRejected(t *testing.T) {
	t.Parallel()
	client := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/datasets/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>proxy error page</html>`))
		}).Methods(http.MethodGet)
	})

	err := client.GetJSON(context.Background(), "tok", "/datasets/", &[]struct{}{})
	if apperrors.KindOf(err) != apperrors.KindServerRejected {
		t.Fatalf("want server-rejected for undecodable body, got %v", err)
	}
}
