package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repos hands out repositories bound to one querier.
type repos struct {
	q   querier
	seq *sequenceCounter
}

// SkillRepo returns the skill catalog repository.
func (r repos) SkillRepo() SkillRepo { return &skillRepo{q: r.q} }

// UserSkillRepo returns the learner skill repository.
func (r repos) UserSkillRepo() UserSkillRepo { return &userSkillRepo{q: r.q} }

// JobRoleRepo returns the job role repository.
func (r repos) JobRoleRepo() JobRoleRepo { return &jobRoleRepo{q: r.q} }

// AssessmentRepo returns the assessment repository.
func (r repos) AssessmentRepo() AssessmentRepo { return &assessmentRepo{q: r.q} }

// ResultRepo returns the completed attempt repository.
func (r repos) ResultRepo() ResultRepo { return &resultRepo{q: r.q} }

// EventRepo returns the append-only event repository.
func (r repos) EventRepo() EventRepo { return &eventRepo{q: r.q, seq: r.seq} }

// Store owns the SQLite connection and provides access to repositories.
type Store struct {
	repos
	db  *sql.DB
	drv *entsql.Driver
}

// Tx exposes repositories that run inside one database transaction.
type Tx struct {
	repos
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps pragmas and
	// in-memory databases stable across queries.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{repos: repos{q: db, seq: seq}, db: db, drv: drv}, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Tx{repos: repos{q: sqlTx, seq: s.seq}}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// withPragmas adds per-connection pragmas to a file DSN unless the caller
// already set some.
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLPATH_DB environment variable
// 2. $XDG_DATA_HOME/skillpath/skillpath.db
// 3. ~/.local/share/skillpath/skillpath.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLPATH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skillpath", "skillpath.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
