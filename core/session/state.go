package session

import "github.com/pkg/errors"

// State is the authentication state of a Manager.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	AuthenticationFailed // transient, collapses back to Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "Unauthenticated"
	case Authenticating:
		return "Authenticating"
	case Authenticated:
		return "Authenticated"
	case AuthenticationFailed:
		return "AuthenticationFailed"
	default:
		return "State(?)"
	}
}

// snapshot is the whole session state. It is only ever replaced, never mutated.
// attempt identifies the login that produced it; 0 when none did.
type snapshot struct {
	state     State
	attempt   uint64
	principal *Principal
	cred      *Credential
}

type (
	action interface{}

	// restored: a Principal (and maybe its Credential) was read back from the Store.
	restored struct {
		principal Principal
		cred      *Credential
	}
	// the login actions carry the attempt they belong to; a later login or a logout supersedes it
	loginStarted       struct{ attempt uint64 }
	credentialVerified struct {
		attempt uint64
		cred    Credential
	}
	principalResolved struct {
		attempt   uint64
		principal Principal
	}
	loginFailed    struct{ attempt uint64 }
	failureCleared struct{}
	loggedOut      struct{}
)

// reduce returns the state reached by applying a to s.
func reduce(s snapshot, a action) (snapshot, error) {
	invalid := func() (snapshot, error) {
		return s, errors.Wrapf(errInvalidTransition, "%T in state %s", a, s.state)
	}

	switch a := a.(type) {
	case restored:
		if s.state != Unauthenticated {
			return invalid()
		}
		p := a.principal
		next := snapshot{state: Authenticated, principal: &p}
		if a.cred != nil && a.cred.Username == p.Username {
			c := *a.cred
			next.cred = &c
		}
		return next, nil

	case loginStarted:
		switch s.state {
		case Authenticating:
			return s, ErrLoginInProgress
		case Unauthenticated, Authenticated:
			return snapshot{state: Authenticating, attempt: a.attempt}, nil
		}
		return invalid()

	case credentialVerified:
		if s.attempt != a.attempt {
			return s, ErrLoginSuperseded
		}
		if s.state != Authenticating {
			return invalid()
		}
		c := a.cred
		return snapshot{state: Authenticating, attempt: s.attempt, cred: &c}, nil

	case principalResolved:
		if s.attempt != a.attempt {
			return s, ErrLoginSuperseded
		}
		if s.state != Authenticating || s.cred == nil {
			return invalid()
		}
		p := a.principal
		return snapshot{state: Authenticated, attempt: s.attempt, principal: &p, cred: s.cred}, nil

	case loginFailed:
		if s.attempt != a.attempt {
			return s, ErrLoginSuperseded
		}
		if s.state != Authenticating {
			return invalid()
		}
		return snapshot{state: AuthenticationFailed}, nil

	case failureCleared:
		if s.state != AuthenticationFailed {
			return invalid()
		}
		return snapshot{state: Unauthenticated}, nil

	case loggedOut:
		return snapshot{state: Unauthenticated}, nil
	}
	return invalid()
}
