package security

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub-backend/internal/config"
	"renthub-backend/internal/domain"
)

type fakeIDTokenVerifier struct {
	token *auth.Token
	err   error
}

func (f *fakeIDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	v := &firebaseVerifier{client: &fakeIDTokenVerifier{token: &auth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"email":          "rita@renthub.ph",
			"email_verified": true,
			"name":           "Rita",
			"picture":        "https://img/rita.png",
			"role":           "owner",
		},
	}}}

	id, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{
		Subject:       "uid-1",
		Email:         "rita@renthub.ph",
		Name:          "Rita",
		Picture:       "https://img/rita.png",
		RequestedRole: domain.UserRoleOwner,
	}, id)
}

func TestFirebaseVerifier_UnverifiedEmail(t *testing.T) {
	v := &firebaseVerifier{client: &fakeIDTokenVerifier{token: &auth.Token{
		UID:    "uid-2",
		Claims: map[string]interface{}{"email": "x@renthub.ph", "email_verified": false},
	}}}

	_, err := v.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestFirebaseVerifier_InvalidToken(t *testing.T) {
	v := &firebaseVerifier{client: &fakeIDTokenVerifier{err: errors.New("signature mismatch")}}

	_, err := v.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier_JWT(t *testing.T) {
	v, err := NewVerifier(context.Background(), config.AuthConfig{Provider: "jwt", JWTSecret: testSecret})
	require.NoError(t, err)
	_, ok := v.(TokenManager)
	assert.True(t, ok)

	_, err = NewVerifier(context.Background(), config.AuthConfig{Provider: "saml"})
	assert.Error(t, err)
}
