package security

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"renthub-backend/internal/config"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
)

// idTokenVerifier is the subset of *auth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier verifies Firebase ID tokens for projectID. Without a
// credentials file, application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (Verifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	logger.ExternalServiceResult("firebase", "VerifyIDToken", nil)

	email := claimString(token.Claims, "email")
	if email == "" {
		return nil, ErrMissingEmail
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrMissingEmail
	}
	return &domain.Identity{
		Subject:       token.UID,
		Email:         email,
		Name:          claimString(token.Claims, "name"),
		Picture:       claimString(token.Claims, "picture"),
		RequestedRole: domain.UserRole(claimString(token.Claims, "role")),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// NewVerifier builds the verifier selected by the auth configuration.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		return NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	case "jwt", "":
		return NewTokenManager(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider: %s", cfg.Provider)
	}
}
