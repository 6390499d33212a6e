package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/course-metadata-importer/internal/config"
	"github.com/stacklok/course-metadata-importer/internal/store"
	"github.com/stacklok/course-metadata-importer/internal/store/mocks"
)

var testUser = &store.ServiceUser{ID: 7, Username: "catalog_worker", Email: "worker@example.com", IsActive: true}

func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func writeSecret(t *testing.T, value string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte(value+"\n"), 0o600))
	return path
}

func TestResolveServiceUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(m *mocks.MockUserDirectory)
		wantErr error
	}{
		{
			name: "active user",
			setup: func(m *mocks.MockUserDirectory) {
				m.EXPECT().GetUserByUsername(gomock.Any(), "catalog_worker").Return(testUser, nil)
			},
		},
		{
			name: "missing user",
			setup: func(m *mocks.MockUserDirectory) {
				m.EXPECT().GetUserByUsername(gomock.Any(), "catalog_worker").
					Return(nil, store.ErrServiceUserNotFound)
			},
			wantErr: store.ErrServiceUserNotFound,
		},
		{
			name: "inactive user",
			setup: func(m *mocks.MockUserDirectory) {
				inactive := *testUser
				inactive.IsActive = false
				m.EXPECT().GetUserByUsername(gomock.Any(), "catalog_worker").Return(&inactive, nil)
			},
			wantErr: store.ErrServiceUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			dir := mocks.NewMockUserDirectory(ctrl)
			tt.setup(dir)

			user, err := ResolveServiceUser(context.Background(), dir, "catalog_worker")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testUser, user)
		})
	}
}

func TestJWTSource_Token(t *testing.T) {
	t.Parallel()

	secret := []byte("s3cret")
	source, err := NewJWTSource(secret, "importer", "catalog", 5*time.Minute, testUser)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return now }

	first, err := source.Token()
	require.NoError(t, err)

	claims := &serviceClaims{}
	parsed, err := jwt.ParseWithClaims(first, claims, func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("importer"),
		jwt.WithAudience("catalog"),
	)
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, "catalog_worker", claims.Subject)
	assert.Equal(t, "catalog_worker", claims.PreferredUsername)
	assert.Equal(t, "worker@example.com", claims.Email)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, now.Add(5*time.Minute).Unix(), claims.ExpiresAt.Unix())

	// cached while far from expiry
	now = now.Add(time.Minute)
	second, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// renewed inside the refresh margin
	now = now.Add(4 * time.Minute)
	third, err := source.Token()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestNewJWTSource_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewJWTSource(nil, "i", "", time.Minute, testUser)
	require.Error(t, err)
	_, err = NewJWTSource([]byte("x"), "i", "", time.Minute, nil)
	require.Error(t, err)
	_, err = NewJWTSource([]byte("x"), "i", "", time.Second, testUser)
	require.Error(t, err)
}

func TestNewTransport_JWT(t *testing.T) {
	t.Parallel()

	var authHeader string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.AuthConfig{
		Type: config.AuthTypeJWT,
		JWT:  &config.JWTAuthConfig{Issuer: "importer", SecretFile: writeSecret(t, "s3cret")},
	}
	rt, err := NewTransport(context.Background(), cfg, testUser, nil)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.True(t, strings.HasPrefix(authHeader, "JWT "), "got %q", authHeader)
	assert.Empty(t, req.Header.Get("Authorization"), "caller request must not be modified")
}

func TestNewTransport_OAuth2(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc123","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	var authHeader string
	api := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	cfg := &config.AuthConfig{
		Type: config.AuthTypeOAuth2,
		OAuth2: &config.OAuth2AuthConfig{
			TokenURL:         tokenServer.URL,
			ClientID:         "importer",
			ClientSecretFile: writeSecret(t, "client-secret"),
		},
	}
	rt, err := NewTransport(context.Background(), cfg, testUser, http.DefaultTransport)
	require.NoError(t, err)

	client := &http.Client{Transport: rt}
	for range 2 {
		resp, err := client.Get(api.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, "Bearer abc123", authHeader)
	assert.Equal(t, int32(1), tokenCalls.Load(), "token should be reused")
}

func TestNewTransport_Errors(t *testing.T) {
	t.Parallel()

	rt, err := NewTransport(context.Background(), nil, testUser, nil)
	require.NoError(t, err)
	assert.Equal(t, http.DefaultTransport, rt)

	_, err = NewTransport(context.Background(), &config.AuthConfig{Type: "basic"}, testUser, nil)
	require.Error(t, err)

	_, err = NewTransport(context.Background(), &config.AuthConfig{
		Type: config.AuthTypeJWT,
		JWT:  &config.JWTAuthConfig{SecretFile: filepath.Join(t.TempDir(), "missing")},
	}, testUser, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrServiceUserNotFound))
}
