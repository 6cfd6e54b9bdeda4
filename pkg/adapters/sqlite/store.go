package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.LedgerStore on SQLite.
// Save replaces a whole ledger inside a single transaction, so readers never
// observe a half-written document.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads every item of the ledger.
func (s *Store) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}

	var updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM ledgers WHERE class = ?`, string(class)).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no %s ledger", domain.ErrStorageUnavailable, class)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", domain.ErrStorageUnavailable, class, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT item, quantity FROM ledger_items WHERE class = ?`, string(class))
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", domain.ErrStorageUnavailable, class, err)
	}
	defer rows.Close()

	ledger := domain.Ledger{}
	for rows.Next() {
		var item string
		var qty int
		if err := rows.Scan(&item, &qty); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", domain.ErrStorageUnavailable, class, err)
		}
		ledger[item] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", domain.ErrStorageUnavailable, class, err)
	}

	return ledger, nil
}

// Save replaces the ledger in one transaction.
func (s *Store) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	if err := class.Validate(); err != nil {
		return err
	}
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s ledger: %w", class, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback() // No-op after Commit

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledgers (class, updated_at) VALUES (?, ?)
		ON CONFLICT(class) DO UPDATE SET updated_at = excluded.updated_at
	`, string(class), now); err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrStorageUnavailable, class, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_items WHERE class = ?`, string(class)); err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrStorageUnavailable, class, err)
	}

	for _, item := range ledger.Items() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_items (class, item, quantity) VALUES (?, ?, ?)`,
			string(class), item, ledger[item],
		); err != nil {
			return fmt.Errorf("%w: save %s/%s: %v", domain.ErrStorageUnavailable, class, item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", domain.ErrStorageUnavailable, class, err)
	}
	return nil
}
