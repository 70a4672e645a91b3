package domain

// Error kinds. Every error leaving a service wraps exactly one of these so the
// transport layer can classify it with errors.Is.
var (
	ErrInvalidInput    = newKind("invalid input")
	ErrNotFound        = newKind("not found")
	ErrConflict        = newKind("conflict")
	ErrUnauthenticated = newKind("unauthenticated")
	ErrForbidden       = newKind("forbidden")
	ErrUnavailable     = newKind("unavailable")
)

var (
	ErrEmailTaken         = NewError(ErrConflict, "email already registered")
	ErrUsernameTaken      = NewError(ErrConflict, "username already taken")
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "invalid email or password")
	ErrInvalidToken       = NewError(ErrUnauthenticated, "invalid or expired token")
	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrProductNotFound    = NewError(ErrNotFound, "product not found")
	ErrEmptyPatch         = NewError(ErrInvalidInput, "no fields provided for update")
)

type kind struct{ name string }

func newKind(name string) error { return &kind{name: name} }

func (k *kind) Error() string { return k.name }

// Error is a classified error whose message is safe to return to callers.
type Error struct {
	Kind    error
	Message string
}

// NewError builds a classified error.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }
