package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/propuesta/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS respuestas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		choice TEXT NOT NULL CHECK (choice IN ('yes', 'time')),
		created_at TEXT NOT NULL,
		ip TEXT,
		user_agent TEXT
	);`

// SQLiteStore implements Repository using SQLite.
//
// Every operation checks out its own connection from the pool and returns it
// before the call completes, so no connection outlives the unit of work that
// acquired it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens the SQLite database at dbPath, creating its directory and
// the responses table when absent.
func NewSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, &StorageError{Op: "create database directory", Err: err}
	}

	// SQLite allows a single writer; busy_timeout makes contending writers wait
	// for the lock instead of failing immediately.
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open database", Err: err}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &SQLiteStore{db: db}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// withConn runs fn on a dedicated connection and releases it on every exit path.
func (s *SQLiteStore) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Warn("failed to release database connection", "op", op, "error", closeErr)
		}
	}()

	if err := fn(conn); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// EnsureSchema creates the responses table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	return s.withConn(ctx, "ensure schema", func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	})
}

// InsertResponse appends one record and returns its generated ID.
func (s *SQLiteStore) InsertResponse(ctx context.Context, resp *domain.Response) (int64, error) {
	if !resp.Choice.Valid() {
		return 0, domain.ErrInvalidChoice
	}

	var id int64
	err := s.withConn(ctx, "insert response", func(conn *sql.Conn) error {
		query := `INSERT INTO respuestas (choice, created_at, ip, user_agent) VALUES (?, ?, ?, ?)`

		var ip interface{}
		if resp.HasIP() {
			ip = resp.IP
		}

		result, err := conn.ExecContext(ctx, query,
			string(resp.Choice), resp.CreatedAt, ip, resp.UserAgent,
		)
		if err != nil {
			return fmt.Errorf("insert response: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	resp.ID = id
	return id, nil
}

// ListResponses returns every record, newest (highest ID) first.
func (s *SQLiteStore) ListResponses(ctx context.Context) ([]domain.Response, error) {
	responses := []domain.Response{}
	err := s.withConn(ctx, "list responses", func(conn *sql.Conn) error {
		query := `
			SELECT id, choice, created_at, ip, user_agent
			FROM respuestas ORDER BY id DESC`

		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("query responses: %w", err)
		}
		defer func() {
			if closeErr := rows.Close(); closeErr != nil {
				slog.Warn("failed to close response rows", "error", closeErr)
			}
		}()

		for rows.Next() {
			var resp domain.Response
			var choice string
			var ip, userAgent sql.NullString

			if err := rows.Scan(&resp.ID, &choice, &resp.CreatedAt, &ip, &userAgent); err != nil {
				return fmt.Errorf("scan response row: %w", err)
			}

			resp.Choice = domain.Choice(choice)
			resp.IP = ip.String
			resp.UserAgent = userAgent.String
			responses = append(responses, resp)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate responses: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
