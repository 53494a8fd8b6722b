package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	HttpPort           uint16   `envconfig:"CAREPROFILES_HTTP_SERVER_PORT" default:"8080" required:"true"`
	StoreDriver        string   `envconfig:"CAREPROFILES_STORE_DRIVER" default:"mongo"`
	CorsAllowedOrigins []string `envconfig:"CAREPROFILES_CORS_ALLOWED_ORIGINS" default:"*"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func (c *Config) UsesPostgres() bool {
	return c.StoreDriver == StoreDriverPostgres
}

// NewConfig loads the service configuration. Values from a dotenv file are
// applied first but never override variables already present in the
// environment.
func NewConfig() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if cfg.StoreDriver != StoreDriverMongo && cfg.StoreDriver != StoreDriverPostgres {
		return nil, errors.New("unsupported store driver " + cfg.StoreDriver)
	}
	return cfg, nil
}

func LoadDotEnv() error {
	envFile := struct {
		Path string `envconfig:"CAREPROFILES_ENV_FILE" default:".env"`
	}{}
	if err := envconfig.Process("", &envFile); err != nil {
		return err
	}
	if err := godotenv.Load(envFile.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
