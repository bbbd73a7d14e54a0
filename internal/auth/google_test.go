package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"toolszone/internal/domain"
)

type fakeGoogle struct {
	ids map[string]GoogleIdentity
}

func (f fakeGoogle) Verify(_ context.Context, raw string) (GoogleIdentity, error) {
	id, ok := f.ids[raw]
	if !ok {
		return GoogleIdentity{}, errors.New("idtoken: invalid token")
	}
	return id, nil
}

func newGoogleService() *Service {
	return newTestService().WithGoogle(fakeGoogle{ids: map[string]GoogleIdentity{
		"grace":      {Subject: "sub-grace", Email: "Grace@Example.com", Name: "Grace", EmailVerified: true},
		"ada":        {Subject: "sub-ada", Email: "ada@example.com", Name: "Ada", EmailVerified: true},
		"unverified": {Subject: "sub-x", Email: "x@example.com", EmailVerified: false},
		"nameless":   {Subject: "sub-n", Email: "n@example.com", EmailVerified: true},
	}})
}

func TestGoogleLogin_CreatesAccountOnce(t *testing.T) {
	ctx := context.Background()
	svc := newGoogleService()

	first, err := svc.GoogleLogin(ctx, "grace")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "grace@example.com", first.User.Email)
	assert.Equal(t, "sub-grace", first.User.GoogleID)
	assert.Empty(t, first.User.PasswordHash)

	again, err := svc.GoogleLogin(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	claims, err := svc.Tokens().Verify(again.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)

	// No password was ever set, so password login cannot succeed.
	_, err = svc.Login(ctx, "grace@example.com", "anything at all")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGoogleLogin_MatchesExistingPasswordAccountByEmail(t *testing.T) {
	ctx := context.Background()
	svc := newGoogleService()

	reg, err := svc.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)

	sess, err := svc.GoogleLogin(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)
}

func TestGoogleLogin_DefaultsNameToEmail(t *testing.T) {
	sess, err := newGoogleService().GoogleLogin(context.Background(), "nameless")
	require.NoError(t, err)
	assert.Equal(t, "n@example.com", sess.User.Name)
}

func TestGoogleLogin_Rejects(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService().GoogleLogin(ctx, "grace")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	svc := newGoogleService()
	_, err = svc.GoogleLogin(ctx, "  ")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = svc.GoogleLogin(ctx, "forged")
	assert.ErrorIs(t, err, domain.ErrInvalidGoogleToken)

	_, err = svc.GoogleLogin(ctx, "unverified")
	assert.ErrorIs(t, err, domain.ErrInvalidGoogleToken)
}

func TestIDTokenVerifier(t *testing.T) {
	var gotAudience string
	v := NewGoogleVerifier("client-123")
	v.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		if token != "good" {
			return nil, errors.New("idtoken: invalid signature")
		}
		return &idtoken.Payload{
			Subject: "sub-1",
			Claims: map[string]interface{}{
				"email":          "a@example.com",
				"name":           "A",
				"email_verified": true,
			},
		}, nil
	}

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "client-123", gotAudience)
	assert.Equal(t, GoogleIdentity{Subject: "sub-1", Email: "a@example.com", Name: "A", EmailVerified: true}, id)

	_, err = v.Verify(context.Background(), "bad")
	assert.Error(t, err)
}

func TestIdentityFromPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload *idtoken.Payload
		want    GoogleIdentity
		wantErr bool
	}{
		{name: "nil", payload: nil, wantErr: true},
		{name: "no subject", payload: &idtoken.Payload{Claims: map[string]interface{}{"email": "a@example.com"}}, wantErr: true},
		{name: "no email", payload: &idtoken.Payload{Subject: "s"}, wantErr: true},
		{
			name:    "string verified flag",
			payload: &idtoken.Payload{Subject: "s", Claims: map[string]interface{}{"email": "a@example.com", "email_verified": "true"}},
			want:    GoogleIdentity{Subject: "s", Email: "a@example.com", EmailVerified: true},
		},
		{
			name:    "unverified",
			payload: &idtoken.Payload{Subject: "s", Claims: map[string]interface{}{"email": "a@example.com"}},
			want:    GoogleIdentity{Subject: "s", Email: "a@example.com"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := identityFromPayload(tc.payload)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
