package auth

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TokenSecret     string        `envconfig:"CAREPROFILES_AUTH_TOKEN_SECRET" required:"true"`
	TokenIssuer     string        `envconfig:"CAREPROFILES_AUTH_TOKEN_ISSUER"`
	CacheSize       int           `envconfig:"CAREPROFILES_AUTH_CACHE_SIZE" default:"10000"`
	CacheExpiration time.Duration `envconfig:"CAREPROFILES_AUTH_CACHE_EXPIRATION" default:"5m"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
