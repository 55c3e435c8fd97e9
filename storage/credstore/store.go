package credstore

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/session"
)

// slot keys
const (
	userKey       = "registrar-user"
	credentialKey = "registrar-credentials"
)

// Slots is a persistent string key/value backend.
type Slots interface {
	// Get returns ok=false when key is not set.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	// Delete ignores keys that are not set.
	Delete(keys ...string) error
}

// Store is the session.Store keeping the Principal and the Credential in two JSON slots.
type Store struct {
	slots  Slots
	logger core.Logger
}

var _ session.Store = (*Store)(nil)

func New(slots Slots, logger core.Logger) *Store {
	return &Store{slots: slots, logger: logger}
}

// Open returns the Store persisted at conf.StoragePath. When that file cannot be used the
// session is kept in memory for the lifetime of the process.
func Open(conf *core.Config, logger core.Logger) *Store {
	if conf.StoragePath == "" {
		logger.Warn("no storage path configured, the session will not be persisted")
		return NewMemoryStore(logger)
	}
	slots, err := OpenSQLite(conf.StoragePath)
	if err != nil {
		logger.Warn(
			"persistent storage unavailable, the session will not be persisted",
			err,
			map[string]interface{}{"path": conf.StoragePath},
		)
		return NewMemoryStore(logger)
	}
	return New(slots, logger)
}

func (s *Store) SavePrincipal(p session.Principal) error {
	return errors.Wrap(s.save(userKey, p), "saving principal")
}

func (s *Store) SaveCredential(c session.Credential) error {
	return errors.Wrap(s.save(credentialKey, c), "saving credential")
}

func (s *Store) save(key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.slots.Set(key, string(b))
}

// Load never fails: unreadable state is reported as absent, corrupt state is also cleared.
func (s *Store) Load() (p session.Principal, c *session.Credential, ok bool) {
	raw, ok, err := s.slots.Get(userKey)
	if err != nil {
		s.logger.Warn("reading stored principal", err)
		return session.Principal{}, nil, false
	}
	if !ok {
		return session.Principal{}, nil, false
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.discard(errors.Wrap(err, userKey))
		return session.Principal{}, nil, false
	}

	raw, ok, err = s.slots.Get(credentialKey)
	if err != nil {
		s.logger.Warn("reading stored credential", err)
		return p, nil, true
	}
	if !ok {
		return p, nil, true
	}
	var cred session.Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		s.discard(errors.Wrap(err, credentialKey))
		return session.Principal{}, nil, false
	}
	return p, &cred, true
}

func (s *Store) discard(cause error) {
	s.logger.Warn("clearing stored session", errors.Wrap(session.ErrStorageCorruption, cause.Error()))
	if err := s.Clear(); err != nil {
		s.logger.Error("clearing stored session", err)
	}
}

func (s *Store) Clear() error {
	return errors.Wrap(s.slots.Delete(userKey, credentialKey), "clearing session")
}

// Close releases the underlying backend, if it holds any resource.
func (s *Store) Close() error {
	if closer, ok := s.slots.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
