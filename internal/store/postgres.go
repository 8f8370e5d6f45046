package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rgehrsitz/comparatrib/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps one row per session name
type PostgresStore struct {
	pool    *pgxpool.Pool
	session string
}

// NewPostgresStore connects, applies migrations and returns the store
func NewPostgresStore(ctx context.Context, dsn, session string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}
	if session == "" {
		session = "default"
	}
	return &PostgresStore{pool: pool, session: session}, nil
}

func migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

// Load reads the row for the session
func (ps *PostgresStore) Load(ctx context.Context) (*AppState, error) {
	row := ps.pool.QueryRow(ctx, `SELECT input, result, saved_at FROM sessions WHERE name = $1`, ps.session)

	var rawInput, rawResult []byte
	var state AppState
	if err := row.Scan(&rawInput, &rawResult, &state.SavedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal(rawInput, &state.Input); err != nil {
		return nil, fmt.Errorf("failed to decode session input: %w", err)
	}
	if len(rawResult) > 0 {
		state.Result = &domain.ComparisonResult{}
		if err := json.Unmarshal(rawResult, state.Result); err != nil {
			return nil, fmt.Errorf("failed to decode session result: %w", err)
		}
	}
	return &state, nil
}

// Save upserts the row for the session
func (ps *PostgresStore) Save(ctx context.Context, state *AppState) error {
	stamp(state)
	rawInput, err := json.Marshal(state.Input)
	if err != nil {
		return fmt.Errorf("failed to encode session input: %w", err)
	}
	var rawResult []byte
	if state.Result != nil {
		if rawResult, err = json.Marshal(state.Result); err != nil {
			return fmt.Errorf("failed to encode session result: %w", err)
		}
	}

	_, err = ps.pool.Exec(ctx, `
		INSERT INTO sessions (name, input, result, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
		  input = $2, result = $3, saved_at = $4
	`, ps.session, rawInput, rawResult, state.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear deletes the row for the session
func (ps *PostgresStore) Clear(ctx context.Context) error {
	_, err := ps.pool.Exec(ctx, `DELETE FROM sessions WHERE name = $1`, ps.session)
	return err
}

// Close releases the pool
func (ps *PostgresStore) Close() error {
	ps.pool.Close()
	return nil
}
