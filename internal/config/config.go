// Package config provides configuration loading and management for the course metadata importer.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/course-metadata-importer/internal/telemetry"
)

// EnvPrefix is the prefix of every environment variable read by the importer,
// e.g. COURSE_IMPORTER_LOG_LEVEL or COURSE_IMPORTER_DATABASE_PASSWORD.
const EnvPrefix = "COURSE_IMPORTER"

const (
	// LookupByKey fetches courses with /courses/?keys=ORG+COURSE
	LookupByKey = "key"

	// LookupByUUID resolves course runs to course UUIDs with /course_runs/ and
	// then fetches courses with /courses/?uuids=
	LookupByUUID = "uuid"
)

const (
	// AuthTypeJWT signs a short-lived JWT for the service user
	AuthTypeJWT = "jwt"

	// AuthTypeOAuth2 uses the OAuth2 client credentials grant
	AuthTypeOAuth2 = "oauth2"
)

const (
	// MaxChunkSize is the largest page the catalog API accepts
	MaxChunkSize = 50

	defaultChunkSize         = MaxChunkSize
	defaultCatalogTimeout    = 30 * time.Second
	defaultRequestsPerSecond = 5.0
	defaultRetryAttempts     = 3
	defaultRetryInitial      = time.Second
	defaultRetryMax          = 30 * time.Second
	defaultJWTExpiry         = 5 * time.Minute
	defaultSSLMode           = "require"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks first; EvalSymlinks also cleans the path.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Catalog   CatalogConfig     `yaml:"catalog"`
	Importer  *ImporterConfig   `yaml:"importer,omitempty"`
	Database  *DatabaseConfig   `yaml:"database"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CatalogConfig defines how to reach the remote course catalog
type CatalogConfig struct {
	// Endpoint is the catalog API base URL, e.g. "https://discovery.example.com/api/v1".
	// Paths such as /courses/ and /course_runs/ are appended to it.
	Endpoint string `yaml:"endpoint"`

	// ServiceUsername is the local user the importer acts as
	ServiceUsername string `yaml:"serviceUsername"`

	// Timeout bounds a single HTTP request (e.g. "30s")
	Timeout string `yaml:"timeout,omitempty"`

	// RequestsPerSecond caps the request rate towards the catalog
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig selects how requests to the catalog are authenticated
type AuthConfig struct {
	// Type is either "jwt" or "oauth2"
	Type   string            `yaml:"type"`
	JWT    *JWTAuthConfig    `yaml:"jwt,omitempty"`
	OAuth2 *OAuth2AuthConfig `yaml:"oauth2,omitempty"`
}

// JWTAuthConfig configures HS256 tokens minted for the service user
type JWTAuthConfig struct {
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience,omitempty"`
	SecretFile string `yaml:"secretFile"`
	Expiry     string `yaml:"expiry,omitempty"`
}

// OAuth2AuthConfig configures the client credentials grant
type OAuth2AuthConfig struct {
	TokenURL         string   `yaml:"tokenURL"`
	ClientID         string   `yaml:"clientID"`
	ClientSecretFile string   `yaml:"clientSecretFile"`
	Scopes           []string `yaml:"scopes,omitempty"`
}

// ImporterConfig tunes the batch import
type ImporterConfig struct {
	// ChunkSize is the number of course runs requested per catalog call (max 50)
	ChunkSize int `yaml:"chunkSize,omitempty"`

	// Lookup is either "key" or "uuid"
	Lookup string `yaml:"lookup,omitempty"`

	Retry *RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig defines the retry policy around a single catalog request
type RetryConfig struct {
	MaxAttempts     uint   `yaml:"maxAttempts,omitempty"`
	InitialInterval string `yaml:"initialInterval,omitempty"`
	MaxInterval     string `yaml:"maxInterval,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`

	// PasswordFile is the path to a file containing only the password.
	// COURSE_IMPORTER_DATABASE_PASSWORD is used when it is empty.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// SSLMode is one of disable, require, verify-ca, verify-full
	SSLMode string `yaml:"sslMode,omitempty"`

	// MigrationUser runs schema migrations; defaults to User
	MigrationUser string `yaml:"migrationUser,omitempty"`

	MaxOpenConns    int32  `yaml:"maxOpenConns,omitempty"`
	MaxIdleConns    int32  `yaml:"maxIdleConns,omitempty"`
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML configuration document
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error
	if err := c.Catalog.validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog: %w", err))
	}
	if err := c.Importer.validate(); err != nil {
		errs = append(errs, fmt.Errorf("importer: %w", err))
	}
	if c.Database == nil {
		errs = append(errs, fmt.Errorf("database: configuration is required"))
	} else if err := c.Database.validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (c *CatalogConfig) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https, got %q", u.Scheme)
	}
	if c.ServiceUsername == "" {
		return fmt.Errorf("serviceUsername is required")
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout must be a valid duration: %w", err)
		}
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requestsPerSecond cannot be negative")
	}
	return c.Auth.validate()
}

func (a *AuthConfig) validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthTypeJWT:
		if a.JWT == nil || a.JWT.SecretFile == "" {
			return fmt.Errorf("auth.jwt.secretFile is required when auth.type is %s", AuthTypeJWT)
		}
		if a.JWT.Expiry != "" {
			if _, err := time.ParseDuration(a.JWT.Expiry); err != nil {
				return fmt.Errorf("auth.jwt.expiry must be a valid duration: %w", err)
			}
		}
	case AuthTypeOAuth2:
		if a.OAuth2 == nil || a.OAuth2.TokenURL == "" || a.OAuth2.ClientID == "" {
			return fmt.Errorf("auth.oauth2.tokenURL and auth.oauth2.clientID are required when auth.type is %s",
				AuthTypeOAuth2)
		}
	default:
		return fmt.Errorf("auth.type must be %s or %s, got %q", AuthTypeJWT, AuthTypeOAuth2, a.Type)
	}
	return nil
}

func (i *ImporterConfig) validate() error {
	if i == nil {
		return nil
	}
	if i.ChunkSize < 0 || i.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunkSize must be between 1 and %d, got %d", MaxChunkSize, i.ChunkSize)
	}
	if i.Lookup != "" && i.Lookup != LookupByKey && i.Lookup != LookupByUUID {
		return fmt.Errorf("lookup must be %s or %s, got %q", LookupByKey, LookupByUUID, i.Lookup)
	}
	if i.Retry != nil {
		for name, value := range map[string]string{
			"retry.initialInterval": i.Retry.InitialInterval,
			"retry.maxInterval":     i.Retry.MaxInterval,
		} {
			if value == "" {
				continue
			}
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("%s must be a valid duration: %w", name, err)
			}
		}
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("host is required")
	}
	if d.Port <= 0 {
		return fmt.Errorf("port is required")
	}
	if d.User == "" {
		return fmt.Errorf("user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database is required")
	}
	if d.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(d.ConnMaxLifetime); err != nil {
			return fmt.Errorf("connMaxLifetime must be a valid duration: %w", err)
		}
	}
	return nil
}

// GetTimeout returns the per-request timeout, defaulting to 30s
func (c *CatalogConfig) GetTimeout() time.Duration {
	return parseDurationOr(c.Timeout, defaultCatalogTimeout)
}

// GetRequestsPerSecond returns the request rate limit, defaulting to 5
func (c *CatalogConfig) GetRequestsPerSecond() float64 {
	if c.RequestsPerSecond == 0 {
		return defaultRequestsPerSecond
	}
	return c.RequestsPerSecond
}

// GetExpiry returns the lifetime of minted tokens
func (j *JWTAuthConfig) GetExpiry() time.Duration {
	return parseDurationOr(j.Expiry, defaultJWTExpiry)
}

// GetSecret reads the signing secret from SecretFile
func (j *JWTAuthConfig) GetSecret() ([]byte, error) {
	secret, err := readSecretFile(j.SecretFile)
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

// GetClientSecret reads the client secret from ClientSecretFile
func (o *OAuth2AuthConfig) GetClientSecret() (string, error) {
	return readSecretFile(o.ClientSecretFile)
}

// GetImporter returns the importer section, never nil
func (c *Config) GetImporter() *ImporterConfig {
	if c.Importer == nil {
		return &ImporterConfig{}
	}
	return c.Importer
}

// GetChunkSize returns the batch size, defaulting to 50
func (i *ImporterConfig) GetChunkSize() int {
	if i.ChunkSize == 0 {
		return defaultChunkSize
	}
	return i.ChunkSize
}

// GetLookup returns the lookup strategy, defaulting to LookupByUUID
func (i *ImporterConfig) GetLookup() string {
	if i.Lookup == "" {
		return LookupByUUID
	}
	return i.Lookup
}

// GetRetryMaxAttempts returns the number of attempts per request, defaulting to 3
func (i *ImporterConfig) GetRetryMaxAttempts() uint {
	if i.Retry == nil || i.Retry.MaxAttempts == 0 {
		return defaultRetryAttempts
	}
	return i.Retry.MaxAttempts
}

// GetRetryInitialInterval returns the first backoff delay
func (i *ImporterConfig) GetRetryInitialInterval() time.Duration {
	if i.Retry == nil {
		return defaultRetryInitial
	}
	return parseDurationOr(i.Retry.InitialInterval, defaultRetryInitial)
}

// GetRetryMaxInterval returns the backoff ceiling
func (i *ImporterConfig) GetRetryMaxInterval() time.Duration {
	if i.Retry == nil {
		return defaultRetryMax
	}
	return parseDurationOr(i.Retry.MaxInterval, defaultRetryMax)
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from COURSE_IMPORTER_DATABASE_PASSWORD
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		return readSecretFile(d.PasswordFile)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if envPassword := v.GetString("DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_DATABASE_PASSWORD", EnvPrefix,
	)
}

// GetMigrationUser returns the user that runs migrations
func (d *DatabaseConfig) GetMigrationUser() string {
	if d.MigrationUser != "" {
		return d.MigrationUser
	}
	return d.User
}

// GetConnMaxLifetime returns the maximum connection lifetime, zero when unset
func (d *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	return parseDurationOr(d.ConnMaxLifetime, 0)
}

// GetConnectionString builds a PostgreSQL URL for the application user.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	return d.connectionString(d.User)
}

// GetMigrationConnectionString builds a PostgreSQL URL for the migration user
func (d *DatabaseConfig) GetMigrationConnectionString() (string, error) {
	return d.connectionString(d.GetMigrationUser())
}

func (d *DatabaseConfig) connectionString(user string) (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(user),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

func readSecretFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("secret file path is empty")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read secret from file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
