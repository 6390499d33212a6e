// Package auth builds the credentials the importer presents to the course catalog.
//
// The importer always acts as a configured service user. The user must exist
// and be active locally; its identity is then carried either in a short-lived
// HS256 JWT or, with the oauth2 type, replaced by a client credentials token.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/stacklok/course-metadata-importer/internal/config"
	"github.com/stacklok/course-metadata-importer/internal/store"
)

// ResolveServiceUser looks up username and rejects missing or inactive users
// with store.ErrServiceUserNotFound.
func ResolveServiceUser(ctx context.Context, dir store.UserDirectory, username string) (*store.ServiceUser, error) {
	user, err := dir.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", store.ErrServiceUserNotFound, username)
	}
	return user, nil
}

// NewTransport wraps base with the authentication described by cfg.
// A nil cfg leaves requests unauthenticated.
func NewTransport(ctx context.Context, cfg *config.AuthConfig, user *store.ServiceUser, base http.RoundTripper) (http.RoundTripper, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg == nil {
		slog.Warn("No catalog auth configured, requests are sent unauthenticated")
		return base, nil
	}

	switch cfg.Type {
	case config.AuthTypeJWT:
		secret, err := cfg.JWT.GetSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to read JWT secret: %w", err)
		}
		source, err := NewJWTSource(secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.GetExpiry(), user)
		if err != nil {
			return nil, err
		}
		slog.Debug("Using JWT catalog auth", "username", user.Username, "issuer", cfg.JWT.Issuer)
		return &JWTTransport{Source: source, Base: base}, nil

	case config.AuthTypeOAuth2:
		secret, err := cfg.OAuth2.GetClientSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to read OAuth2 client secret: %w", err)
		}
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: secret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}
		// the token endpoint is reached with the same base transport
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
		slog.Debug("Using OAuth2 client credentials catalog auth",
			"username", user.Username, "client_id", cfg.OAuth2.ClientID)
		return &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, cc.TokenSource(tokenCtx)),
			Base:   base,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}
}
