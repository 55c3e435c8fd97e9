package credstore

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const schema = `CREATE TABLE IF NOT EXISTS slots (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type sqliteSlots struct {
	db *sqlx.DB
}

var _ Slots = (*sqliteSlots)(nil)

// OpenSQLite opens (or creates) the sqlite database at path and its slots table.
func OpenSQLite(path string) (*sqliteSlots, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage")
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating slots table")
	}
	return &sqliteSlots{db: db}, nil
}

func (s *sqliteSlots) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM slots WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "reading slot %s", key)
	}
	return value, true, nil
}

func (s *sqliteSlots) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO slots (key, value) VALUES (?, ?)`, key, value)
	return errors.Wrapf(err, "writing slot %s", key)
}

func (s *sqliteSlots) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM slots WHERE key IN (?)`, keys)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = s.db.Exec(s.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting slots")
}

func (s *sqliteSlots) Close() error {
	return s.db.Close()
}
