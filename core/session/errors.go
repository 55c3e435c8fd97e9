package session

import "github.com/pkg/errors"

var (
	ErrLoginInProgress    = errors.New("a login is already in progress")
	ErrLoginSuperseded    = errors.New("login superseded by a logout or another login")
	ErrProfileUnavailable = errors.New("profile unavailable")
	ErrStorageCorruption  = errors.New("stored session is corrupt")
	errInvalidTransition  = errors.New("invalid session transition")
)

// AuthenticationError is returned by Manager.Login when the backend rejects the credentials.
type AuthenticationError struct {
	Err error
}

func (err *AuthenticationError) Error() string {
	if err.Err == nil {
		return "authentication failed"
	}
	return "authentication failed: " + err.Err.Error()
}

func (err *AuthenticationError) Unwrap() error { return err.Err }
