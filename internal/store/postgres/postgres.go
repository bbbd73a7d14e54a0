// Package postgres is the Store backed by PostgreSQL through pgx's
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"toolszone/internal/config"
	"toolszone/internal/domain"
	"toolszone/internal/store"
)

const uniqueViolation = "23505"

const userColumns = `id, email, name, role, COALESCE(password, ''), COALESCE(google_id, ''), created_at, updated_at`

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255),
		google_id VARCHAR(255),
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS user_tools (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		tool_name VARCHAR(100) NOT NULL,
		used_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		parameters JSONB
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_google_id ON users (google_id) WHERE google_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_user_tools_user_used ON user_tools (user_id, used_at DESC);`,
}

// Store implements store.Store.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The schema is not touched.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects using cfg.Store.Postgres, verifies the connection and
// creates missing tables.
func Open(cfg config.Config) (store.Store, error) {
	dsn, err := DSN(cfg.Store.Postgres)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(30 * time.Second)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// EnsureSchema creates the tables this store needs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, nu store.NewUser) (domain.User, error) {
	role := nu.Role
	if role == "" {
		role = domain.RoleUser
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, google_id, name, role) VALUES ($1, $2, $3, $4, $5) RETURNING `+userColumns,
		nu.Email, nullable(nu.PasswordHash), nullable(nu.GoogleID), nu.Name, role)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, err
	}
	return u, nil
}

// nullable stores empty strings as NULL so the partial unique index on
// google_id ignores password accounts.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) UserByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	if googleID == "" {
		return domain.User{}, domain.ErrUserNotFound
	}
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
}

func (s *Store) RecordToolUsage(ctx context.Context, u domain.ToolUsage) error {
	var params []byte
	if len(u.Parameters) > 0 {
		b, err := json.Marshal(u.Parameters)
		if err != nil {
			return fmt.Errorf("encode tool parameters: %w", err)
		}
		params = b
	}
	usedAt := u.UsedAt
	if usedAt.IsZero() {
		usedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_tools (user_id, tool_name, used_at, parameters) VALUES ($1, $2, $3, $4)`,
		u.UserID, u.ToolName, usedAt, params)
	return err
}

func (s *Store) ToolUsage(ctx context.Context, userID int64, limit int) ([]domain.ToolUsage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, tool_name, used_at, parameters FROM user_tools
		 WHERE user_id = $1 ORDER BY used_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ToolUsage
	for rows.Next() {
		var u domain.ToolUsage
		var params []byte
		if err := rows.Scan(&u.ID, &u.UserID, &u.ToolName, &u.UsedAt, &params); err != nil {
			return nil, err
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &u.Parameters); err != nil {
				return nil, fmt.Errorf("decode tool parameters: %w", err)
			}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
