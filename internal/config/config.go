package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envAppEnv                = "APP_ENV"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envRedisDialTimeout      = "REDIS_DIAL_TIMEOUT"
	envRedisOpTimeout        = "REDIS_OP_TIMEOUT"
	envJWTSecret             = "JWT_SECRET"
	envJWTAccessExpiry       = "JWT_ACCESS_EXPIRY_MINUTES"
	envJWTRefreshExpiry      = "JWT_REFRESH_EXPIRY_MINUTES"
	envLoginMaxAttempts      = "LOGIN_MAX_ATTEMPTS"
	envLoginAttemptWindow    = "LOGIN_ATTEMPT_WINDOW"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envImageBucket           = "IMAGE_BUCKET"
	envUploadURLExpiry       = "UPLOAD_URL_EXPIRY"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultAppEnv             = EnvDevelopment
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "newsportal"
	defaultDBUser             = "newsportal_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultRedisDialTimeout   = 2 * time.Second
	defaultRedisOpTimeout     = 500 * time.Millisecond
	defaultAccessExpiry       = 15 * time.Minute
	defaultRefreshExpiry      = 7 * 24 * time.Hour
	defaultLoginMaxAttempts   = 5
	defaultLoginWindow        = 15 * time.Minute
	defaultUploadURLExpiry    = 15 * time.Minute
	minJWTSecretLength        = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set"
	errJWTSecretRequiredFmt    = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errLoginAttemptsPositive   = "LOGIN_MAX_ATTEMPTS must be positive"
	errLoginWindowPositive     = "LOGIN_ATTEMPT_WINDOW must be positive"
	errUnknownAppEnvFmt        = "APP_ENV must be %q or %q"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Cookie    CookieConfig
	Storage   StorageConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig describes the optional login-attempt counting backend.
// An empty Addr means the backend is absent and the attempt limiter
// runs in its degraded fail-open mode.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type CookieConfig struct {
	AccessName  string
	RefreshName string
	Secure      bool
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ImageBucket     string
	UploadURLExpiry time.Duration
}

type AppConfig struct {
	Environment string
}

func Load() (*Config, error) {
	env := getEnv(envAppEnv, defaultAppEnv)

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Redis: RedisConfig{
			Addr:        os.Getenv(envRedisAddr),
			Password:    os.Getenv(envRedisPassword),
			DB:          getIntEnv(envRedisDB, 0),
			DialTimeout: getDurationEnv(envRedisDialTimeout, defaultRedisDialTimeout),
			OpTimeout:   getDurationEnv(envRedisOpTimeout, defaultRedisOpTimeout),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv(envJWTSecret),
			AccessExpiry:  getDurationEnv(envJWTAccessExpiry, defaultAccessExpiry),
			RefreshExpiry: getDurationEnv(envJWTRefreshExpiry, defaultRefreshExpiry),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: getIntEnv(envLoginMaxAttempts, defaultLoginMaxAttempts),
			Window:      getDurationEnv(envLoginAttemptWindow, defaultLoginWindow),
		},
		Cookie: CookieConfig{
			AccessName:  "auth-token",
			RefreshName: "refresh-token",
			Secure:      env == EnvProduction,
		},
		Storage: StorageConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			ImageBucket:     os.Getenv(envImageBucket),
			UploadURLExpiry: getDurationEnv(envUploadURLExpiry, defaultUploadURLExpiry),
		},
		App: AppConfig{
			Environment: env,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.App.Environment != EnvDevelopment && c.App.Environment != EnvProduction {
		return fmt.Errorf(errUnknownAppEnvFmt, EnvDevelopment, EnvProduction)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.RateLimit.MaxAttempts <= 0 {
		return fmt.Errorf(errLoginAttemptsPositive)
	}

	if c.RateLimit.Window <= 0 {
		return fmt.Errorf(errLoginWindowPositive)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
