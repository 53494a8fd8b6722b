package postgres

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DSN             string `envconfig:"CAREPROFILES_POSTGRES_DSN"`
	Host            string `envconfig:"CAREPROFILES_POSTGRES_HOST" default:"localhost"`
	Port            uint16 `envconfig:"CAREPROFILES_POSTGRES_PORT" default:"5432"`
	User            string `envconfig:"CAREPROFILES_POSTGRES_USER" default:"postgres"`
	Password        string `envconfig:"CAREPROFILES_POSTGRES_PASSWORD"`
	DatabaseName    string `envconfig:"CAREPROFILES_POSTGRES_DATABASE" default:"careprofiles"`
	SslMode         string `envconfig:"CAREPROFILES_POSTGRES_SSLMODE" default:"disable"`
	MaxConns        int32  `envconfig:"CAREPROFILES_POSTGRES_MAX_CONNS" default:"5"`
	ApplicationName string `envconfig:"CAREPROFILES_POSTGRES_APPLICATION_NAME" default:"careprofiles"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConnectionString returns the explicit DSN when set, otherwise one built
// from the individual settings.
func (c *Config) GetConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}

	cs := "postgres://" + c.User
	if c.Password != "" {
		cs += ":" + c.Password
	}
	return cs + fmt.Sprintf("@%s:%d/%s?sslmode=%s&connect_timeout=10", c.Host, c.Port, c.DatabaseName, c.SslMode)
}
