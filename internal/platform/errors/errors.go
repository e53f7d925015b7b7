package apperrors

import "errors"

// Kind classifies how a failed operation should be presented and routed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a client-detected error caught before any network call.
	KindValidation
	// KindServerRejected is a non-2xx response with a message worth showing.
	KindServerRejected
	// KindNetwork means the request could not complete at all.
	KindNetwork
	// KindAuthExpired is a rejection that means the token is no longer valid.
	// It is the only kind that propagates globally: whoever observes it must
	// collapse the session, not just render a message.
	KindAuthExpired
)

var (
	ErrNoToken  = errors.New("no persisted token")
	ErrNotFound = errors.New("not found")
)

// Error carries a Kind and a user-facing message alongside an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes classified errors match on Kind, so a sentinel built with
// AuthExpired() compares equal to any other auth-expired error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func ServerRejected(msg string) *Error {
	return &Error{Kind: KindServerRejected, Msg: msg}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Msg: "network error, please try again", Err: err}
}

func AuthExpired() *Error {
	return &Error{Kind: KindAuthExpired, Msg: "session expired, please log in again"}
}

// KindOf extracts the Kind from err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsAuthExpired reports whether err must trigger the global session cleanup.
func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}
