package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zerotreasury/zdao/internal/chain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS chain_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	chain_id INTEGER NOT NULL,
	block INTEGER NOT NULL,
	tx_count INTEGER NOT NULL,
	payload BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store persists chain snapshots in a single-row SQLite table
type Store struct {
	sqlDB *sql.DB
	path  string
}

// Open opens the SQLite database at path and creates the schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, path: cleanPath}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored snapshot, or nil when the table is empty
func (s *Store) Load(ctx context.Context) (*chain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM chain_state WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chain state: %w", err)
	}

	var snap chain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode chain state: %w", err)
	}
	return &snap, nil
}

// Save replaces the stored snapshot
func (s *Store) Save(ctx context.Context, snap *chain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode chain state: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO chain_state (id, chain_id, block, tx_count, payload, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	chain_id = excluded.chain_id,
	block = excluded.block,
	tx_count = excluded.tx_count,
	payload = excluded.payload,
	updated_at = excluded.updated_at
`,
		int64(snap.ChainID),
		int64(snap.Block),
		int64(snap.TxCount),
		payload,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save chain state: %w", err)
	}
	return nil
}

// Head returns the block number of the stored snapshot
func (s *Store) Head(ctx context.Context) (uint64, bool, error) {
	var block int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT block FROM chain_state WHERE id = 1`).Scan(&block)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read head: %w", err)
	}
	return uint64(block), true, nil
}

var _ chain.SnapshotStore = (*Store)(nil)
