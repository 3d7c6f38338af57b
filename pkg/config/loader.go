package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	terr "github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/logging"
	"github.com/arthur-debert/termime/pkg/paths"
)

// EnvPrefix prefixes environment overrides
const EnvPrefix = "TERMIME_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Options select where configuration comes from
type Options struct {
	// Path is an explicit configuration file. It must exist.
	Path string

	// Paths locates the user file when Path is empty. Defaults to paths.New().
	Paths paths.Paths

	// Overrides are applied last, as flat "a.b" keys
	Overrides map[string]interface{}

	// NoEnv skips TERMIME_* variables
	NoEnv bool
}

// DefaultsTOML returns the embedded default configuration
func DefaultsTOML() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Default returns the embedded defaults only
func Default() *Config {
	cfg, err := Load(Options{Path: "-", NoEnv: true})
	if err != nil {
		// The embedded file is part of the build
		panic(err)
	}
	return cfg
}

// Load builds the effective configuration. Path "-" skips the user file.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, terr.Wrap(err, terr.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	source, err := userFile(opts)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if err := k.Load(file.Provider(source), parserFor(source)); err != nil {
			return nil, terr.Wrapf(err, terr.ErrConfigParse, "failed to load config from %s", source).
				WithDetail("path", source)
		}
		logger.Debug().Str("path", source).Msg("Loaded user config")
	}

	// 3. Environment
	if !opts.NoEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, terr.Wrap(err, terr.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, terr.Wrap(err, terr.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(";"),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, terr.Wrap(err, terr.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Source = source

	return &cfg, nil
}

// userFile returns the file to load, or "" for none
func userFile(opts Options) (string, error) {
	switch opts.Path {
	case "-":
		return "", nil
	case "":
		p := opts.Paths
		if p == nil {
			p = paths.New()
		}
		if path, ok := p.ConfigFile(); ok {
			return path, nil
		}
		return "", nil
	}

	path := paths.ExpandHome(opts.Path)
	if _, err := os.Stat(path); err != nil {
		return "", terr.Wrapf(err, terr.ErrConfigLoad, "cannot read config file %s", path).
			WithDetail("path", path)
	}
	return path, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps TERMIME_IMAGE__MAX_WIDTH to image.max_width
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
