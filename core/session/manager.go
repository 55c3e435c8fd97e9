package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

// backend endpoints
const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	profilePath  = "/users/me"
	logoutPath   = "/logout"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required,notblank"`
		Password string `json:"password" validate:"required"`
	}

	// RegisterRequest is the payload of POST /auth/register. The backend defaults Role to STUDENT.
	RegisterRequest struct {
		Username string `json:"username" validate:"required,notblank,min=3,max=50"`
		Password string `json:"password" validate:"required,min=6,max=100"`
		Role     string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN STUDENT"`
	}
)

// Manager owns the session: it is the only writer of the Store and of the in-memory state.
type Manager struct {
	attempts uint64 // atomic, numbers login attempts; first for 64-bit alignment

	store      Store
	transport  core.Transport // unsigned, for the auth endpoints
	gateway    *Gateway
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator

	mu   sync.RWMutex
	snap snapshot
}

// NewManager returns a Manager restored from whatever store holds.
// Restoration is optimistic: nothing is re-verified with the backend.
func NewManager(store Store, transport core.Transport, logger core.Logger) *Manager {
	validate, translator := core.NewValidator()
	m := &Manager{
		store:      store,
		transport:  transport,
		logger:     logger,
		validate:   validate,
		translator: translator,
	}
	m.gateway = NewGateway(transport, m, logger)
	m.restore()
	return m
}

func (m *Manager) restore() {
	p, cred, ok := m.store.Load()
	if !ok {
		return
	}
	if !p.valid() {
		m.logger.Warn("discarding stored session", errors.Wrap(ErrStorageCorruption, "incomplete principal"))
		m.clearStore()
		return
	}
	if cred != nil && cred.Username != p.Username {
		m.logger.Warn("stored credential does not match the stored user, requests will be unsigned",
			map[string]interface{}{"username": p.Username})
	}
	if err := m.dispatch(restored{principal: p, cred: cred}); err != nil {
		m.logger.Error("restoring session", err)
	}
}

// dispatch applies a and, once the transition is accepted, runs persist before the new state
// becomes visible. Both happen under the lock so the Store always mirrors the committed state.
func (m *Manager) dispatch(a action, persist ...func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := reduce(m.snap, a)
	if err != nil {
		return err
	}
	for _, fn := range persist {
		fn()
	}
	m.snap = next
	return nil
}

// Login verifies username and secret with the backend and, on success, persists the session.
// Failures leave the Manager Unauthenticated and the Store empty. The error is a
// *core.ValidationError, a *core.NetworkError or an *AuthenticationError; ErrLoginSuperseded
// when a logout or another login replaced this one while it was in flight.
func (m *Manager) Login(ctx context.Context, username, secret string) (Principal, error) {
	attempt := atomic.AddUint64(&m.attempts, 1)
	if err := m.dispatch(loginStarted{attempt: attempt}); err != nil {
		return Principal{}, err
	}

	username = core.CleanString(username)
	if err := m.validateStruct(LoginRequest{Username: username, Password: secret}); err != nil {
		return Principal{}, m.failLogin(attempt, err)
	}

	cred := Credential{Username: username, Secret: secret}
	_, err := m.transport.Do(ctx, core.Request{
		Method:  http.MethodPost,
		Path:    loginPath,
		Headers: map[string]string{authorizationHeader: cred.AuthorizationHeader()},
	})
	if err != nil {
		return Principal{}, m.failLogin(attempt, err)
	}

	err = m.dispatch(credentialVerified{attempt: attempt, cred: cred}, func() {
		if err := m.store.SaveCredential(cred); err != nil {
			m.logger.Warn("persisting credential failed, the session will not survive a restart", err)
		}
	})
	if err != nil {
		return Principal{}, m.failLogin(attempt, err)
	}

	principal := m.fetchProfile(ctx, username)
	err = m.dispatch(principalResolved{attempt: attempt, principal: principal}, func() {
		if err := m.store.SavePrincipal(principal); err != nil {
			m.logger.Warn("persisting principal failed, the session will not survive a restart", err)
		}
	})
	if err != nil {
		return Principal{}, m.failLogin(attempt, err)
	}

	m.logger.Info("logged in", principal)
	return principal, nil
}

// fetchProfile resolves the Principal from GET /users/me, or synthesizes it from the username.
func (m *Manager) fetchProfile(ctx context.Context, username string) Principal {
	var p Principal
	res, err := m.gateway.Do(ctx, core.Request{Method: http.MethodGet, Path: profilePath})
	if err == nil {
		err = res.Decode(&p)
	}
	if err == nil && !p.valid() {
		err = errors.New("incomplete profile")
	}
	if err != nil {
		m.logger.Warn(
			"using fallback principal",
			errors.Wrap(ErrProfileUnavailable, err.Error()),
			map[string]interface{}{"username": username},
		)
		return fallbackPrincipal(username)
	}
	return p
}

// failLogin ends attempt. A superseded attempt leaves the session that replaced it untouched.
func (m *Manager) failLogin(attempt uint64, cause error) error {
	if err := m.dispatch(loginFailed{attempt: attempt}, m.clearStore); err != nil {
		if errors.Is(err, ErrLoginSuperseded) {
			m.logger.Warn("discarding superseded login", cause)
			return ErrLoginSuperseded
		}
		m.logger.Error("failing login", err, cause)
		return err
	}
	_ = m.dispatch(failureCleared{})
	m.logger.Warn("login failed", cause)

	var vErr *core.ValidationError
	var netErr *core.NetworkError
	switch {
	case errors.As(cause, &vErr), errors.As(cause, &netErr):
		return cause
	default:
		return &AuthenticationError{Err: cause}
	}
}

// Register creates a backend account. It never changes the current session.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) error {
	req.Username = core.CleanString(req.Username)
	req.Role = strings.ToUpper(core.CleanString(req.Role))
	if err := m.validateStruct(req); err != nil {
		return err
	}
	if _, err := m.transport.Do(ctx, core.Request{Method: http.MethodPost, Path: registerPath, Body: req}); err != nil {
		return errors.Wrap(err, "registering "+req.Username)
	}
	return nil
}

// Logout notifies the backend, best effort, then clears the session whatever the outcome.
// The returned error only reports a Store that could not be cleared.
func (m *Manager) Logout(ctx context.Context) error {
	p, _ := m.Principal()
	if _, err := m.transport.Do(ctx, core.Request{Method: http.MethodPost, Path: logoutPath}); err != nil {
		m.logger.Warn("backend logout failed", err)
	}

	var err error
	_ = m.dispatch(loggedOut{}, func() { err = m.store.Clear() })
	if err != nil {
		m.logger.Error("clearing session store", err, p)
		return errors.Wrap(err, "clearing session store")
	}
	m.logger.Info("logged out", p)
	return nil
}

func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("clearing session store", err)
	}
}

func (m *Manager) validateStruct(v interface{}) error {
	if err := m.validate.Struct(v); err != nil {
		return core.TranslateValidationErrors(err, m.translator)
	}
	return nil
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.state
}

// Principal returns the current Principal. ok is false unless the Manager is Authenticated.
func (m *Manager) Principal() (p Principal, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap.state != Authenticated || m.snap.principal == nil {
		return Principal{}, false
	}
	return *m.snap.principal, true
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// ActiveUsername returns the username of the cached credential, or "" when there is none.
func (m *Manager) ActiveUsername() string {
	cred, _ := m.Credential()
	return cred.Username
}

// Credential implements CredentialSource.
func (m *Manager) Credential() (Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap.cred == nil {
		return Credential{}, false
	}
	return *m.snap.cred, true
}

// Gateway returns the transport signing requests with this session's credential.
func (m *Manager) Gateway() *Gateway { return m.gateway }
