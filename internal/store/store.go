// Package store defines persistence for accounts and tool usage. The
// implementation is chosen once at startup from configuration.
package store

import (
	"context"
	"fmt"

	"toolszone/internal/config"
	"toolszone/internal/domain"
)

// NewUser is the input to CreateUser.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	GoogleID     string
	Role         string
}

// Store is implemented by the postgres and memory packages.
// Lookups that find nothing return domain.ErrUserNotFound; CreateUser on a
// taken email returns domain.ErrUserExists.
type Store interface {
	CreateUser(ctx context.Context, u NewUser) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UserByGoogleID(ctx context.Context, googleID string) (domain.User, error)

	RecordToolUsage(ctx context.Context, u domain.ToolUsage) error
	ToolUsage(ctx context.Context, userID int64, limit int) ([]domain.ToolUsage, error)

	Ping(ctx context.Context) error
	Close() error
}

// Opener builds a Store for one driver.
type Opener func(cfg config.Config) (Store, error)

// Open picks the opener registered for cfg.Store.Driver.
func Open(cfg config.Config, openers map[string]Opener) (Store, error) {
	open, ok := openers[cfg.Store.Driver]
	if !ok {
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Store.Driver)
	}
	return open(cfg)
}
