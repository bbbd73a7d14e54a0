package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the part of a verified Google ID token the service uses.
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleVerifier checks a Google ID token for this application's client id.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// IDTokenVerifier validates tokens against Google's published keys.
type IDTokenVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier returns a verifier for clientID.
func NewGoogleVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, raw string) (GoogleIdentity, error) {
	payload, err := v.validate(ctx, raw, v.clientID)
	if err != nil {
		return GoogleIdentity{}, err
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (GoogleIdentity, error) {
	if p == nil || p.Subject == "" {
		return GoogleIdentity{}, errors.New("google token has no subject")
	}
	id := GoogleIdentity{Subject: p.Subject}
	if email, ok := p.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := p.Claims["name"].(string); ok {
		id.Name = name
	}
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = v
	case string:
		id.EmailVerified = v == "true"
	}
	if id.Email == "" {
		return GoogleIdentity{}, fmt.Errorf("google token for %s has no email", p.Subject)
	}
	return id, nil
}
