// Package fetch gives every view the same request lifecycle: one Fetcher
// per resource, Loading while a call is in flight, and a latest-wins rule
// so a stale completion can never overwrite the state of a newer trigger.
package fetch

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	apperrors "eqviz/internal/platform/errors"
)

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

// DoneMsg carries one call's outcome back into Update. ID ties it to the
// trigger that issued it; Apply drops it when a newer trigger superseded
// that call.
type DoneMsg[T any] struct {
	ID   string
	Data T
	Err  error
}

// SessionExpiredMsg is emitted by views when a completion carried the
// auth-expired kind; the root model reacts by collapsing to the auth
// screens no matter which view was active.
type SessionExpiredMsg struct{}

// Fetcher owns one network operation's state. Not safe for concurrent use;
// all mutation happens on the Bubble Tea update loop.
type Fetcher[T any] struct {
	status  Status
	data    T
	errMsg  string
	kind    apperrors.Kind
	latest  string
	timeout time.Duration
}

func New[T any](timeout time.Duration) Fetcher[T] {
	return Fetcher[T]{timeout: timeout}
}

// Start transitions to Loading and returns the command that runs the call.
// Each call is tagged; a later Start supersedes any still-flying one.
func (f *Fetcher[T]) Start(run func(ctx context.Context) (T, error)) tea.Cmd {
	id := uuid.NewString()
	f.latest = id
	f.status = Loading
	f.errMsg = ""
	timeout := f.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		data, err := run(ctx)
		return DoneMsg[T]{ID: id, Data: data, Err: err}
	}
}

// Apply folds a completion into the state. It reports false, leaving the
// state untouched, when the message belongs to a superseded call.
func (f *Fetcher[T]) Apply(msg DoneMsg[T]) bool {
	if msg.ID != f.latest {
		return false
	}
	if msg.Err != nil {
		var zero T
		f.status = Error
		f.data = zero
		f.errMsg = apperrors.Message(msg.Err)
		f.kind = apperrors.KindOf(msg.Err)
		return true
	}
	f.status = Success
	f.data = msg.Data
	f.errMsg = ""
	f.kind = apperrors.KindUnknown
	return true
}

// Fail records a client-detected error without any call ever starting, so
// validation failures render through the same state as network ones.
func (f *Fetcher[T]) Fail(kind apperrors.Kind, msg string) {
	var zero T
	f.latest = ""
	f.status = Error
	f.data = zero
	f.errMsg = msg
	f.kind = kind
}

// Dismiss clears a rendered error back to Idle.
func (f *Fetcher[T]) Dismiss() {
	if f.status == Error {
		f.status = Idle
		f.errMsg = ""
		f.kind = apperrors.KindUnknown
	}
}

// Reset returns to Idle and invalidates any in-flight call.
func (f *Fetcher[T]) Reset() {
	var zero T
	*f = Fetcher[T]{timeout: f.timeout}
	f.data = zero
}

func (f *Fetcher[T]) Status() Status { return f.status }

// Busy reports whether a call is in flight; views derive every disabled
// button and ignored submit from this.
func (f *Fetcher[T]) Busy() bool { return f.status == Loading }

func (f *Fetcher[T]) Data() T { return f.data }

// SetData replaces the held data in place. The delete flow uses it to drop
// a removed row without a re-fetch.
func (f *Fetcher[T]) SetData(data T) {
	f.data = data
}

func (f *Fetcher[T]) ErrMsg() string { return f.errMsg }

func (f *Fetcher[T]) Kind() apperrors.Kind { return f.kind }
