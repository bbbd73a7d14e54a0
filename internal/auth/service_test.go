package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"toolszone/internal/domain"
	"toolszone/internal/store/memory"
)

func newTestService() *Service {
	svc := NewService(memory.New(), NewTokenManager("secret", "toolszone", time.Hour))
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	sess, err := svc.Register(ctx, "Ada@Example.com", "correct horse", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ada@example.com", sess.User.Email)
	assert.NotEqual(t, "correct horse", sess.User.PasswordHash)

	_, err = svc.Register(ctx, "ada@example.com", "another pass", "Ada 2")
	assert.ErrorIs(t, err, domain.ErrUserExists)

	login, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	claims, err := svc.Tokens().Verify(login.Token)
	require.NoError(t, err)

	me, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService()
	cases := []struct{ email, password, name string }{
		{"not-an-email", "long enough", "Ada"},
		{"ada@example.com", "short", "Ada"},
		{"ada@example.com", "long enough", "  "},
	}
	for _, c := range cases {
		_, err := svc.Register(context.Background(), c.email, c.password, c.name)
		assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err), "%+v", c)
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	svc := newTestService()
	_, err := svc.CurrentUser(context.Background(), &Claims{UserID: 404})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
