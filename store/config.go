package store

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

const (
	SchemeMongo    = "mongodb"
	SchemeMongoSrv = "mongodb+srv"
)

type Config struct {
	DatabaseName string `envconfig:"CAREPROFILES_DATABASE_NAME" default:"careprofiles"`
	Hosts        string `envconfig:"CAREPROFILES_STORE_ADDRESSES"  default:"localhost"`
	OptParams    string `envconfig:"CAREPROFILES_STORE_OPT_PARAMS"`
	Password     string `envconfig:"CAREPROFILES_STORE_PASSWORD"`
	Scheme       string `envconfig:"CAREPROFILES_STORE_SCHEME" default:"mongodb"`
	Ssl          bool   `envconfig:"CAREPROFILES_STORE_TLS"`
	User         string `envconfig:"CAREPROFILES_STORE_USERNAME"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetConnectionString builds the mongo URI. Hosts is a comma separated list of
// host:port pairs and OptParams is appended to the query verbatim.
func (c *Config) GetConnectionString() (string, error) {
	uri := url.URL{
		Scheme: c.Scheme,
		Host:   c.Hosts,
		Path:   "/",
	}
	switch uri.Scheme {
	case "":
		uri.Scheme = SchemeMongo
	case SchemeMongo, SchemeMongoSrv:
	default:
		return "", fmt.Errorf("unsupported store scheme %q", c.Scheme)
	}
	if uri.Host == "" {
		uri.Host = "localhost"
	}

	if c.User != "" {
		if c.Password != "" {
			uri.User = url.UserPassword(c.User, c.Password)
		} else {
			uri.User = url.User(c.User)
		}
	}

	uri.RawQuery = fmt.Sprintf("ssl=%t", c.Ssl)
	if c.OptParams != "" {
		uri.RawQuery += "&" + c.OptParams
	}

	return uri.String(), nil
}
