package config

import (
	"strings"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/rules"
)

// AllTypes enables every type the session setup routine knows
const AllTypes = "all"

// Config is the effective configuration
type Config struct {
	Types        []string               `koanf:"types" toml:"types" yaml:"types"`
	InlineLimit  int                    `koanf:"inline_limit" toml:"inline_limit" yaml:"inline_limit"`
	MaxSequence  int                    `koanf:"max_sequence" toml:"max_sequence" yaml:"max_sequence"`
	RemotePrefix string                 `koanf:"remote_prefix" toml:"remote_prefix" yaml:"remote_prefix"`
	Image        map[string]interface{} `koanf:"image" toml:"image" yaml:"image"`
	Shell        Shell                  `koanf:"shell" toml:"shell" yaml:"shell"`
	Rules        []rules.Rule           `koanf:"rules" toml:"rules" yaml:"rules"`

	// Source is the user file the configuration was read from, if any
	Source string `koanf:"-" toml:"-" yaml:"-"`
}

// Shell configures shell integration
type Shell struct {
	InitDir string `koanf:"init_dir" toml:"init_dir" yaml:"init_dir"`
}

// TypesArgument renders the enabled types the way setup routines take them:
// "all" or a ";" separated list
func (c *Config) TypesArgument() string {
	if len(c.Types) == 0 {
		return ""
	}
	for _, t := range c.Types {
		if t == AllTypes {
			return AllTypes
		}
	}
	return strings.Join(c.Types, ";")
}

// Validate checks the configuration. known reports whether a renderer name
// exists; nil skips that check.
func (c *Config) Validate(known func(name string) bool) error {
	if c.InlineLimit < 0 {
		return errors.Newf(errors.ErrConfigValid, "inline_limit must not be negative, got %d", c.InlineLimit)
	}
	if c.MaxSequence < 0 {
		return errors.Newf(errors.ErrConfigValid, "max_sequence must not be negative, got %d", c.MaxSequence)
	}

	for i, r := range c.Rules {
		if r.Pattern == "" && r.Kind != rules.KindAny {
			return errors.Newf(errors.ErrConfigValid, "rule %d has an empty pattern", i).
				WithDetail("rule", i)
		}
		if r.Renderer == "" {
			return errors.Newf(errors.ErrConfigValid, "rule %d has no renderer", i).
				WithDetail("rule", i)
		}
		if known != nil && !known(r.Renderer) {
			return errors.Newf(errors.ErrConfigValid, "rule %d names unknown renderer %q", i, r.Renderer).
				WithDetail("rule", i)
		}
		if _, err := rules.Compile(r); err != nil {
			return err
		}
	}
	return nil
}
