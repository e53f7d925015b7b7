package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	authdto "eqviz/internal/modules/auth/dto"
	dsdto "eqviz/internal/modules/dataset/dto"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/views/detail"
	"eqviz/internal/ui/views/history"
	"eqviz/internal/ui/views/upload"
)

type stubAuth struct {
	session     authdto.SessionOutput
	ok          bool
	logoutCalls int
	expireCalls int
}

func (s *stubAuth) Restore(context.Context) (authdto.SessionOutput, error) {
	return s.session, nil
}
func (s *stubAuth) Login(context.Context, authdto.LoginInput) (authdto.SessionOutput, error) {
	return s.session, nil
}
func (s *stubAuth) Register(context.Context, authdto.RegisterInput) (authdto.SessionOutput, error) {
	return s.session, nil
}
func (s *stubAuth) Logout(context.Context) error {
	s.logoutCalls++
	return nil
}
func (s *stubAuth) Expire(context.Context) error {
	s.expireCalls++
	return nil
}
func (s *stubAuth) Current() (authdto.SessionOutput, bool) { return s.session, s.ok }

type stubDataset struct{}

func (stubDataset) ValidateCSVName(string) error { return nil }
func (stubDataset) List(context.Context) ([]dsdto.SummaryOutput, error) {
	return nil, nil
}
func (stubDataset) Get(context.Context, int) (dsdto.DetailOutput, error) {
	return dsdto.DetailOutput{}, nil
}
func (stubDataset) Upload(context.Context, dsdto.UploadInput) (dsdto.UploadOutput, error) {
	return dsdto.UploadOutput{}, nil
}
func (stubDataset) Delete(context.Context, int) error { return nil }
func (stubDataset) SaveReport(context.Context, int) (dsdto.ReportOutput, error) {
	return dsdto.ReportOutput{}, nil
}

func signedInModel(t *testing.T) Model {
	t.Helper()
	auth := &stubAuth{session: authdto.SessionOutput{Username: "alice"}, ok: true}
	m := NewModel(auth, stubDataset{}, time.Second)
	next, _ := m.Update(restoreDoneMsg{session: auth.session})
	return next.(Model)
}

func TestRestoreFailureKeepsTheAuthGateClosed(t *testing.T) {
	t.Parallel()
	m := NewModel(&stubAuth{}, stubDataset{}, time.Second)

	next, _ := m.Update(restoreDoneMsg{err: context.DeadlineExceeded})
	got := next.(Model)
	if got.signedIn {
		t.Fatalf("failed restore must not open the gate")
	}
	if got.restoring {
		t.Fatalf("restore attempt must be marked finished")
	}
}

func TestRestoreSuccessOpensTheDashboard(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)
	if !m.signedIn || m.username != "alice" {
		t.Fatalf("restore must open the gate with the restored user")
	}
	if m.activeView != viewDashboard {
		t.Fatalf("signed-in start view must be the dashboard, got %v", m.activeView)
	}
}

func TestDetailViewRequiresASelection(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)

	cmd := m.goTo(viewDetail)
	if cmd != nil {
		t.Fatalf("rejected navigation must not produce a command")
	}
	if m.activeView == viewDetail {
		t.Fatalf("detail view must be unreachable without a selection")
	}
}

func TestSelectingADatasetSetsViewAndSelectionTogether(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)

	next, cmd := m.Update(history.SelectedMsg{ID: 5})
	got := next.(Model)
	if got.activeView != viewDetail || !got.hasSelect || got.selected != 5 {
		t.Fatalf("selection and view must change atomically: %+v", got.activeView)
	}
	if cmd == nil {
		t.Fatalf("entering detail must start the detail fetch")
	}
}

func TestBackFromDetailClearsTheSelection(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)
	next, _ := m.Update(history.SelectedMsg{ID: 5})
	next, _ = next.(Model).Update(detail.BackMsg{})
	got := next.(Model)

	if got.activeView != viewHistory {
		t.Fatalf("back must land on history, got %v", got.activeView)
	}
	if got.hasSelect {
		t.Fatalf("leaving detail must clear the selection")
	}
}

func TestUploadSchedulesADeferredSwitchToHistory(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)
	next, cmd := m.Update(upload.UploadedMsg{Filename: "plant.csv"})
	got := next.(Model)

	if got.pendingNav == uuid.Nil {
		t.Fatalf("upload success must arm a deferred navigation")
	}
	if cmd == nil {
		t.Fatalf("upload success must schedule the tick")
	}

	next, _ = got.Update(navTickMsg{tag: got.pendingNav})
	after := next.(Model)
	if after.activeView != viewHistory {
		t.Fatalf("the armed tick must land on history, got %v", after.activeView)
	}
	if after.pendingNav != uuid.Nil {
		t.Fatalf("a consumed tick must disarm the pending navigation")
	}
}

func TestManualNavigationCancelsTheDeferredSwitch(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)
	next, _ := m.Update(upload.UploadedMsg{Filename: "plant.csv"})
	got := next.(Model)
	armed := got.pendingNav

	// the user moves on before the tick fires
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	got = next.(Model)
	if got.activeView != viewDashboard {
		t.Fatalf("manual navigation must take effect, got %v", got.activeView)
	}

	next, _ = got.Update(navTickMsg{tag: armed})
	after := next.(Model)
	if after.activeView != viewDashboard {
		t.Fatalf("a stale tick must be dropped, landed on %v", after.activeView)
	}
}

func TestSessionExpiryCollapsesToTheAuthGate(t *testing.T) {
	t.Parallel()
	m := signedInModel(t)
	next, _ := m.Update(history.SelectedMsg{ID: 3})
	next, _ = next.(Model).Update(fetch.SessionExpiredMsg{})
	got := next.(Model)

	if got.signedIn {
		t.Fatalf("an expired session must close the gate")
	}
	if got.hasSelect || got.pendingNav != uuid.Nil {
		t.Fatalf("expiry must drop selection and pending navigation")
	}
}

func TestLogoutKeyReturnsToTheAuthGate(t *testing.T) {
	t.Parallel()
	auth := &stubAuth{session: authdto.SessionOutput{Username: "bob"}, ok: true}
	m := NewModel(auth, stubDataset{}, time.Second)
	next, _ := m.Update(restoreDoneMsg{session: auth.session})
	got := next.(Model)

	_, cmd := got.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil {
		t.Fatalf("logout key must produce a command")
	}
	msg := cmd()
	if _, ok := msg.(loggedOutMsg); !ok {
		t.Fatalf("logout command must complete with loggedOutMsg, got %T", msg)
	}
	if auth.logoutCalls != 1 {
		t.Fatalf("logout must call the auth port, saw %d", auth.logoutCalls)
	}

	next, _ = got.Update(msg)
	if next.(Model).signedIn {
		t.Fatalf("logout completion must close the gate")
	}
}
