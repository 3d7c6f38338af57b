package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/termime/pkg/errors"
)

// TOML renders the configuration as a TOML document
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
