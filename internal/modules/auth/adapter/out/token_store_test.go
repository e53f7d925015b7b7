package out_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	authout "eqviz/internal/modules/auth/adapter/out"
	apperrors "eqviz/internal/platform/errors"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "token")
	store := authout.NewFileTokenStore(path)

	rapid.Check(t, func(t *rapid.T) {
		token := rapid.StringMatching(`[A-Za-z0-9]{8,64}`).Draw(t, "token")
		if err := store.Save(token); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := store.Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got != token {
			t.Fatalf("round trip mismatch: saved %q, loaded %q", token, got)
		}
	})
}

func TestTokenStoreLoadWithoutFile(t *testing.T) {
	t.Parallel()
	store := authout.NewFileTokenStore(filepath.Join(t.TempDir(), "missing", "token"))

	if _, err := store.Load(); !errors.Is(err, apperrors.ErrNoToken) {
		t.Fatalf("want ErrNoToken, got %v", err)
	}
}

func TestTokenStoreClearIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "token")
	store := authout.NewFileTokenStore(path)

	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear must also succeed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, apperrors.ErrNoToken) {
		t.Fatalf("want ErrNoToken after clear, got %v", err)
	}
}

func TestTokenStoreFileIsOwnerOnly(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "token")
	store := authout.NewFileTokenStore(path)

	if err := store.Save("tok-secret"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file must be 0600, got %o", perm)
	}
}
