// Package iostate persists session state across runs.
package iostate

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"     // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// stateTable is the name of the key/value state table.
const stateTable = "gitpulse_state"

// driverNames maps a backend onto its database/sql driver.
var driverNames = map[schema.DatabaseBackend]string{
	schema.SQLiteBackend:     "sqlite",
	schema.MySQLBackend:      "mysql",
	schema.PostgreSQLBackend: "pgx",
}

// StateStoreImpl handles durable state operations using various database backends.
type StateStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	now     func() time.Time
}

var _ contract.StateStore = &StateStoreImpl{} // Compile-time check

// NewStateStore opens the backend, migrates the schema and returns the store.
// The none backend returns a store that remembers nothing.
func NewStateStore(backend schema.DatabaseBackend, connStr string) (contract.StateStore, error) {
	if backend == schema.NoneBackend {
		return &StateStoreImpl{backend: backend, now: time.Now}, nil
	}
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateDB(db, backend, LatestVersion); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &StateStoreImpl{db: db, backend: backend, connStr: connStr, now: time.Now}, nil
}

// openDB opens and pings a connection for backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, ok := driverNames[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported state backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s state store: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// disabled reports whether the store drops every write.
func (s *StateStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// placeholder returns the nth parameter placeholder for the backend.
func (s *StateStoreImpl) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertQuery returns the UPSERT query for the backend.
func (s *StateStoreImpl) upsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return `INSERT INTO ` + stateTable + ` (state_key, state_value, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE state_value = new.state_value, updated_at = new.updated_at`
	case schema.PostgreSQLBackend:
		return `INSERT INTO ` + stateTable + ` (state_key, state_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value, updated_at = EXCLUDED.updated_at`
	default: // SQLite
		return `INSERT OR REPLACE INTO ` + stateTable + ` (state_key, state_value, updated_at) VALUES (?, ?, ?)`
	}
}

// Get retrieves a value by key from the store.
func (s *StateStoreImpl) Get(key string) (string, bool, error) {
	if s.disabled() {
		return "", false, nil
	}
	var value string
	query := fmt.Sprintf(`SELECT state_value FROM %s WHERE state_key = %s`, stateTable, s.placeholder(1))
	err := s.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a key/value pair in the store.
func (s *StateStoreImpl) Set(key, value string) error {
	if s.disabled() {
		return nil
	}
	if _, err := s.db.Exec(s.upsertQuery(), key, value, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	return nil
}

// Delete removes a key from the store.
func (s *StateStoreImpl) Delete(key string) error {
	if s.disabled() {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE state_key = %s`, stateTable, s.placeholder(1))
	if _, err := s.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}

// Clear removes every key from the store.
func (s *StateStoreImpl) Clear() error {
	if s.disabled() {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM ` + stateTable); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (s *StateStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the state store.
func (s *StateStoreImpl) GetStatus() (schema.StateStatus, error) {
	status := schema.StateStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
		Keys:      []string{},
	}
	if s.disabled() {
		return status, nil
	}

	rows, err := s.db.Query(`SELECT state_key, updated_at FROM ` + stateTable + ` ORDER BY state_key`)
	if err != nil {
		return status, fmt.Errorf("failed to list state keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var last int64
	for rows.Next() {
		var key string
		var ts int64
		if err := rows.Scan(&key, &ts); err != nil {
			return status, fmt.Errorf("failed to scan state key: %w", err)
		}
		status.Keys = append(status.Keys, key)
		last = max(last, ts)
	}
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("failed to list state keys: %w", err)
	}

	status.TotalEntries = len(status.Keys)
	if status.TotalEntries == 0 {
		return status, nil
	}
	status.LastEntryTime = time.Unix(last, 0)
	status.TableSizeBytes = s.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize estimates the table footprint using backend-specific queries,
// falling back to a rough per-row estimate.
func (s *StateStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 256
	var size int64
	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := s.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, stateTable)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", stateTable).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}
