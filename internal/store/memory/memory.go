// Package memory is an in-process Store used for local development and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"toolszone/internal/config"
	"toolszone/internal/domain"
	"toolszone/internal/store"
)

// Store keeps users and usage records in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]domain.User
	byEmail  map[string]int64
	byGoogle map[string]int64
	usage    []domain.ToolUsage
	now      func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[int64]domain.User),
		byEmail:  make(map[string]int64),
		byGoogle: make(map[string]int64),
		now:      time.Now,
	}
}

// Open satisfies store.Opener.
func Open(config.Config) (store.Store, error) {
	return New(), nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *Store) CreateUser(_ context.Context, u store.NewUser) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return domain.User{}, domain.ErrUserExists
	}
	if _, ok := s.byGoogle[u.GoogleID]; ok && u.GoogleID != "" {
		return domain.User{}, domain.ErrUserExists
	}
	s.nextID++
	now := s.now().UTC()
	user := domain.User{
		ID:           s.nextID,
		Email:        email,
		Name:         u.Name,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	if user.GoogleID != "" {
		s.byGoogle[user.GoogleID] = user.ID
	}
	return user, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) UserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) UserByGoogleID(_ context.Context, googleID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byGoogle[googleID]
	if !ok || googleID == "" {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) RecordToolUsage(_ context.Context, u domain.ToolUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = int64(len(s.usage) + 1)
	if u.UsedAt.IsZero() {
		u.UsedAt = s.now().UTC()
	}
	s.usage = append(s.usage, u)
	return nil
}

// ToolUsage returns the newest records first, ordered by UsedAt and then ID
// like the postgres store.
func (s *Store) ToolUsage(_ context.Context, userID int64, limit int) ([]domain.ToolUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ToolUsage
	for _, u := range s.usage {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UsedAt.Equal(out[j].UsedAt) {
			return out[i].UsedAt.After(out[j].UsedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
