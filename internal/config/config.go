package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend selection values. One backend is active per deployment; the
// other remains a pluggable alternative behind the same adapter contract.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Backup  BackupConfig  `mapstructure:"backup"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string      `mapstructure:"backend"` // "file" or "mongo"
	DataDir string      `mapstructure:"data_dir"`
	Mongo   MongoConfig `mapstructure:"mongo"`
}

type MongoConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// AuthConfig defines the single-user login and JWT settings.
type AuthConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	PasswordHash  string        `mapstructure:"password_hash"` // bcrypt hash of the user's password
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
}

// BackupConfig configures the S3-compatible backup target for export documents.
type BackupConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Env var overrides, e.g. storage.backend -> STORAGE_BACKEND,
	// auth.jwt_secret -> AUTH_JWT_SECRET.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("storage.backend", BackendFile)
	viper.SetDefault("storage.data_dir", "./data")
	viper.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("storage.mongo.name", "ironlog")
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwt_expiration", "24h")
	viper.SetDefault("backup.enabled", false)

	err = viper.ReadInConfig()
	// A missing config file is fine; defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

// Validate checks the parts of the config that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMongo:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendFile, BackendMongo, c.Storage.Backend)
	}
	if c.Auth.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
		}
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("auth.password_hash is required when auth is enabled")
		}
	}
	if c.Backup.Enabled && c.Backup.BucketName == "" {
		return fmt.Errorf("backup.bucket_name is required when backup is enabled")
	}
	return nil
}
