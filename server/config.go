package server

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/xImouto/imoddit/storage"
)

// keys to access config values. Each one is bound to the upper-cased env variable
const (
	DbUserKey         string = "db_user"
	DbPasswordKey     string = "db_password"
	DbNameKey         string = "db_name"
	DbHostKey         string = "db_host"
	DbPortKey         string = "db_port"
	DbSSLModeKey      string = "db_sslmode"
	DbMaxOpenConnsKey string = "db_max_open_conns"
	ServerPortKey     string = "server_port"
	JwtSecretKey      string = "jwt_secret_key"
	TokenTTLKey       string = "token_ttl"
	StoreKey          string = "store"
	MigrateKey        string = "migrate"
	LogLevelKey       string = "log_level"
	LogDevelopmentKey string = "log_development"
)

// supported stores
const (
	StorePostgres string = "postgres"
	StoreMemory   string = "memory"
)

// Config - server settings
type Config struct {
	DB             storage.ConnOptions
	ServerPort     string
	JwtSecret      []byte
	TokenTTL       time.Duration
	Store          string
	Migrate        bool
	LogLevel       string
	LogDevelopment bool
}

// SetDefaults - sets defaults and binds env variables. Access them by the same key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(DbHostKey, "localhost")
	v.SetDefault(DbPortKey, 5432)
	v.SetDefault(DbUserKey, "postgres")
	v.SetDefault(DbNameKey, "imoddit")
	v.SetDefault(DbSSLModeKey, "disable")
	v.SetDefault(DbMaxOpenConnsKey, 25)
	v.SetDefault(ServerPortKey, "8080")
	v.SetDefault(TokenTTLKey, 24*time.Hour)
	v.SetDefault(StoreKey, StorePostgres)
	v.SetDefault(LogLevelKey, "info")

	for _, key := range []string{
		DbUserKey, DbPasswordKey, DbNameKey, DbHostKey, DbPortKey, DbSSLModeKey, DbMaxOpenConnsKey,
		ServerPortKey, JwtSecretKey, TokenTTLKey, StoreKey, MigrateKey, LogLevelKey, LogDevelopmentKey,
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
}

// LoadConfig - reads and validates config from v
func LoadConfig(v *viper.Viper) (*Config, error) {
	dbPort, err := cast.ToIntE(v.Get(DbPortKey))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", DbPortKey)
	}
	maxOpenConns, err := cast.ToIntE(v.Get(DbMaxOpenConnsKey))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", DbMaxOpenConnsKey)
	}
	tokenTTL, err := cast.ToDurationE(v.Get(TokenTTLKey))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", TokenTTLKey)
	}
	if tokenTTL <= 0 {
		return nil, errors.Errorf("%s must be positive, got %s", TokenTTLKey, tokenTTL)
	}

	cfg := &Config{
		DB: storage.ConnOptions{
			Host:            v.GetString(DbHostKey),
			Port:            dbPort,
			User:            v.GetString(DbUserKey),
			Password:        v.GetString(DbPasswordKey),
			DBName:          v.GetString(DbNameKey),
			SSLMode:         v.GetString(DbSSLModeKey),
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxOpenConns / 2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		ServerPort:     v.GetString(ServerPortKey),
		JwtSecret:      []byte(v.GetString(JwtSecretKey)),
		TokenTTL:       tokenTTL,
		Store:          v.GetString(StoreKey),
		Migrate:        v.GetBool(MigrateKey),
		LogLevel:       v.GetString(LogLevelKey),
		LogDevelopment: v.GetBool(LogDevelopmentKey),
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return nil, errors.Errorf("unknown store %q, expected %s or %s", cfg.Store, StorePostgres, StoreMemory)
	}
	return cfg, nil
}
