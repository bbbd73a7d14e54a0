// Package auth handles accounts, password checks and bearer tokens.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"toolszone/internal/domain"
	"toolszone/internal/store"
)

const minPasswordLen = 8

// Session is what register and login hand back to the client.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Service implements register, login and profile lookup on top of a Store.
type Service struct {
	store  store.Store
	tokens *TokenManager
	google GoogleVerifier
	cost   int
}

// NewService wires a store and token manager.
func NewService(s store.Store, tokens *TokenManager) *Service {
	return &Service{store: s, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithGoogle enables Google sign-in through v.
func (s *Service) WithGoogle(v GoogleVerifier) *Service {
	s.google = v
	return s
}

// GoogleEnabled reports whether a Google verifier is configured.
func (s *Service) GoogleEnabled() bool { return s.google != nil }

// Tokens exposes the manager for the bearer middleware.
func (s *Service) Tokens() *TokenManager { return s.tokens }

func validateRegistration(email, password, name string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return domain.InvalidInput("Please enter a valid email")
	}
	if len(password) < minPasswordLen {
		return domain.InvalidInput("Password must be at least 8 characters long")
	}
	if strings.TrimSpace(name) == "" {
		return domain.InvalidInput("Name is required")
	}
	return nil
}

// Register creates an account and returns a session for it.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(email, password, name); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, domain.Internal("Server error during registration", err)
	}

	u, err := s.store.CreateUser(ctx, store.NewUser{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, domain.Internal("Server error during registration", err)
	}
	return s.session(u)
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.InvalidInput("Email and password are required")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Internal("Server error during login", err)
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.session(u)
}

// CurrentUser loads the account behind verified claims.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (domain.User, error) {
	u, err := s.store.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, domain.Internal("Server error while fetching user profile", err)
	}
	return u, nil
}

// GoogleLogin signs in with a Google ID token. An unknown Google account
// is matched by verified email, or created without a password.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.google == nil {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "Google sign-in is not enabled"}
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, domain.InvalidInput("Google ID token is required")
	}

	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Message: domain.ErrInvalidGoogleToken.Message, Err: err}
	}

	u, err := s.store.UserByGoogleID(ctx, id.Subject)
	if err == nil {
		return s.session(u)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.Internal("Server error during Google authentication", err)
	}

	if !id.EmailVerified {
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Message: domain.ErrInvalidGoogleToken.Message, Err: errors.New("google email not verified")}
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))

	u, err = s.store.UserByEmail(ctx, email)
	if err == nil {
		return s.session(u)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.Internal("Server error during Google authentication", err)
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = email
	}
	u, err = s.store.CreateUser(ctx, store.NewUser{
		Email:    email,
		Name:     name,
		GoogleID: id.Subject,
		Role:     domain.RoleUser,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// A concurrent sign-in created the account first.
		u, err = s.store.UserByGoogleID(ctx, id.Subject)
	}
	if err != nil {
		return nil, domain.Internal("Server error during Google authentication", err)
	}
	return s.session(u)
}

func (s *Service) session(u domain.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, domain.Internal("", err)
	}
	return &Session{Token: token, User: u}, nil
}
