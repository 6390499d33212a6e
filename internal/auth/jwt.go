package auth

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stacklok/course-metadata-importer/internal/store"
)

// jwtRefreshMargin renews a token this long before it expires
const jwtRefreshMargin = 30 * time.Second

// serviceClaims are the claims minted for the service user
type serviceClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email,omitempty"`
	UserID            int64  `json:"user_id"`
}

// JWTSource mints and caches HS256 tokens for a service user
type JWTSource struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
	user     *store.ServiceUser
	now      func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSource creates a token source. The secret must not be empty.
func NewJWTSource(secret []byte, issuer, audience string, expiry time.Duration, user *store.ServiceUser) (*JWTSource, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret is empty")
	}
	if user == nil {
		return nil, errors.New("service user is required")
	}
	if expiry <= jwtRefreshMargin {
		return nil, fmt.Errorf("JWT expiry must be longer than %s", jwtRefreshMargin)
	}
	return &JWTSource{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
		user:     user,
		now:      time.Now,
	}, nil
}

// Token returns a cached token, minting a new one when it is close to expiry
func (s *JWTSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(jwtRefreshMargin).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.expiry)
	claims := serviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   s.user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		PreferredUsername: s.user.Username,
		Email:             s.user.Email,
		UserID:            s.user.ID,
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	s.token = signed
	s.expires = expires
	return signed, nil
}

// JWTTransport adds "Authorization: JWT <token>" to every request
type JWTTransport struct {
	Source *JWTSource
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *JWTTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.Token()
	if err != nil {
		return nil, err
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "JWT "+token)
	return base.RoundTrip(req)
}
