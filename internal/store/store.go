package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

const (
	snapshotApp   = "app"
	snapshotTimer = "timer"
)

// Store is the single authority for all business entities. State lives in
// memory; every mutation serializes the full affected snapshot back to the
// SQLite key-value slot.
type Store struct {
	db  *sql.DB
	rng *rand.Rand

	app   appState
	timer timerState
}

// New opens (or creates) the SQLite database at dbPath, runs migrations and
// loads the persisted snapshots. Missing or corrupt snapshots fall back to
// the default empty state rather than failing.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.load()
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS snapshots (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// load reads both snapshots. Absence or a decode failure yields defaults.
func (s *Store) load() {
	s.app = defaultAppState()
	if raw, ok := s.readSnapshot(snapshotApp); ok {
		var st appState
		if json.Unmarshal(raw, &st) == nil {
			s.app = st
		}
	}
	s.app.normalize()

	s.timer = defaultTimerState()
	if raw, ok := s.readSnapshot(snapshotTimer); ok {
		var st timerState
		if json.Unmarshal(raw, &st) == nil {
			s.timer = st
		}
	}
	s.timer.normalize()
}

func (s *Store) readSnapshot(key string) ([]byte, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return nil, false
	}
	return []byte(value), true
}

func (s *Store) writeSnapshot(key string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("write %s snapshot: %w", key, err)
	}
	return nil
}

func (s *Store) saveApp() error {
	return s.writeSnapshot(snapshotApp, s.app)
}

func (s *Store) saveTimer() error {
	return s.writeSnapshot(snapshotTimer, s.timer)
}

// nextID mints a new unique entity id. IDs are never reused, even across
// restarts, because the counter rides in the snapshot.
func (s *Store) nextID() int64 {
	id := s.app.NextID
	s.app.NextID++
	return id
}

func (s *Store) nextNoteID() int64 {
	id := s.timer.NextID
	s.timer.NextID++
	return id
}

// ResetState wipes both persisted snapshots and reinstates the default
// empty state. Calling it twice is the same as calling it once.
func (s *Store) ResetState() error {
	if _, err := s.db.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("reset snapshots: %w", err)
	}
	s.app = defaultAppState()
	s.timer = defaultTimerState()
	return nil
}

// DefaultDBPath returns ~/.config/arquiteck/arquiteck.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "arquiteck", "arquiteck.db"), nil
}
