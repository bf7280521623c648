package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const EnvProduction = "production"

// Config holds every runtime setting of the registry API.
type Config struct {
	AppEnv                  string `koanf:"app_env" validate:"required"`
	DatabaseURL             string `koanf:"database_url" validate:"required"`
	SecretKey               string `koanf:"secret_key" validate:"required,min=16"`
	AccessTokenExpireHours  int    `koanf:"access_token_expire_hours" validate:"min=1,max=720"`
	ResetTokenExpireMinutes int    `koanf:"reset_token_expire_minutes" validate:"min=1,max=1440"`
	AllowedOrigins          string `koanf:"allowed_origins"`
	LogLevel                string `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	DocsEnabled             bool   `koanf:"docs_enabled"`
	DocsInProduction        bool   `koanf:"docs_in_production"`
	ServerPort              int    `koanf:"server_port" validate:"min=1,max=65535"`
	AutoMigrate             bool   `koanf:"auto_migrate"`

	StorageEndpoint        string `koanf:"storage_endpoint" validate:"omitempty,url"`
	StorageRegion          string `koanf:"storage_region"`
	StorageBucket          string `koanf:"storage_bucket"`
	StorageAccessKeyID     string `koanf:"storage_access_key_id"`
	StorageSecretAccessKey string `koanf:"storage_secret_access_key"`
	StoragePublicBaseURL   string `koanf:"storage_public_base_url" validate:"omitempty,url"`
}

// Defaults returns the configuration used for any variable left unset.
func Defaults() Config {
	return Config{
		AppEnv:                  "local",
		AccessTokenExpireHours:  24,
		ResetTokenExpireMinutes: 30,
		LogLevel:                "info",
		DocsEnabled:             true,
		ServerPort:              8080,
		StorageRegion:           "auto",
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	known := knownKeys()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func knownKeys() map[string]struct{} {
	keys := []string{
		"app_env", "database_url", "secret_key", "access_token_expire_hours",
		"reset_token_expire_minutes", "allowed_origins", "log_level", "docs_enabled",
		"docs_in_production", "server_port", "auto_migrate",
		"storage_endpoint", "storage_region", "storage_bucket", "storage_access_key_id",
		"storage_secret_access_key", "storage_public_base_url",
	}
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// DocsAvailable reports whether the interactive API reference should be mounted.
func (c *Config) DocsAvailable() bool {
	if !c.DocsEnabled {
		return false
	}
	return !c.IsProduction() || c.DocsInProduction
}

// Origins returns the CORS allow-list. Local frontends are always allowed outside
// production; an empty list means any origin.
func (c *Config) Origins() []string {
	var origins []string
	seen := make(map[string]bool)
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		origins = append(origins, o)
	}

	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		add(o)
	}
	if !c.IsProduction() {
		add("http://localhost:3000")
		add("http://127.0.0.1:3000")
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) StorageEnabled() bool {
	return c.StorageEndpoint != "" && c.StorageBucket != "" &&
		c.StorageAccessKeyID != "" && c.StorageSecretAccessKey != ""
}
