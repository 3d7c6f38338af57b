package session

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/termime/pkg/config"
	"github.com/arthur-debert/termime/pkg/decoder"
	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/logging"
	"github.com/arthur-debert/termime/pkg/osc"
	"github.com/arthur-debert/termime/pkg/paths"
	"github.com/arthur-debert/termime/pkg/render"
	"github.com/arthur-debert/termime/pkg/rules"
	"github.com/arthur-debert/termime/pkg/shell"
	"github.com/arthur-debert/termime/pkg/style"
)

// Demux is where the session registers its frame decoder
type Demux interface {
	Handle(id int, h osc.Handler)
}

// Session is the context object of one termime session
type Session struct {
	mu sync.Mutex

	kind     string
	cfg      *config.Config
	env      *render.Env
	custom   map[string]render.Renderer
	names    []string
	table    *rules.Table[render.Renderer]
	sink     render.Sink
	fs       afero.Fs
	resolver *frame.Resolver
	decoder  *decoder.Decoder
	shellDir string
	theme    *style.Theme
	width    int
	color    bool
	enabled  bool
	logger   zerolog.Logger
}

// Option configures a session
type Option func(*Session)

// WithFs sets the filesystem references and init scripts live on
func WithFs(fs afero.Fs) Option {
	return func(s *Session) { s.fs = fs }
}

// WithShellDir sets where shell init scripts are installed
func WithShellDir(dir string) Option {
	return func(s *Session) { s.shellDir = dir }
}

// WithRenderer registers a renderer under name, replacing a built-in of the
// same name. Rules refer to it by that name.
func WithRenderer(name string, r render.Renderer) Option {
	return func(s *Session) { s.custom[name] = r }
}

// WithTheme sets the styles renditions use
func WithTheme(t *style.Theme) Option {
	return func(s *Session) { s.theme = t }
}

// WithWidth sets the layout width renditions wrap to
func WithWidth(width int) Option {
	return func(s *Session) { s.width = width }
}

// WithColor enables colour in renditions
func WithColor(color bool) Option {
	return func(s *Session) { s.color = color }
}

// New creates a session of the given kind writing renditions to sink
func New(kind string, cfg *config.Config, sink render.Sink, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Session{
		kind:   kind,
		sink:   sink,
		fs:     afero.NewOsFs(),
		custom: make(map[string]render.Renderer),
		logger: logging.GetLogger("session").With().Str("kind", kind).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.apply(cfg); err != nil {
		return nil, err
	}
	s.decoder = decoder.New(s.table, s.resolver, sink)
	return s, nil
}

// apply builds table, renderer environment and resolver from cfg
func (s *Session) apply(cfg *config.Config) error {
	image, err := render.DecodeImageOptions(cfg.Image)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid image options")
	}
	env := &render.Env{Theme: s.theme, Width: s.width, Color: s.color, Image: image}

	reg := render.Builtins(env)
	for name, r := range s.custom {
		if err := reg.Set(name, r); err != nil {
			return err
		}
	}

	if err := cfg.Validate(reg.Has); err != nil {
		return err
	}
	ruleSet := cfg.Rules
	if len(ruleSet) == 0 {
		ruleSet = rules.DefaultRules()
	}
	table, err := render.NewTable(reg, ruleSet)
	if err != nil {
		return err
	}

	resolver := frame.NewResolver(s.fs)
	resolver.RemotePrefix = cfg.RemotePrefix

	s.logger.Debug().
		Int("renderers", reg.Count()).
		Int("rules", table.Len()).
		Msg("Renderer table built")

	s.cfg = cfg
	s.env = env
	s.table = table
	s.names = reg.List()
	s.resolver = resolver
	return nil
}

// Reconfigure swaps configuration between frames. On error the session keeps
// its previous configuration.
func (s *Session) Reconfigure(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(cfg); err != nil {
		return err
	}
	s.decoder.SetTable(s.table)
	s.decoder.SetResolver(s.resolver)
	s.logger.Info().Int("rules", s.table.Len()).Msg("Session reconfigured")
	return nil
}

// Kind returns the session kind
func (s *Session) Kind() string { return s.kind }

// Decoder returns the session's frame decoder
func (s *Session) Decoder() *decoder.Decoder { return s.decoder }

// Table returns the renderer table in use. It can be changed in place.
func (s *Session) Table() *rules.Table[render.Renderer] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Renderers returns the names rules can refer to, sorted
func (s *Session) Renderers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Config returns the configuration in use
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Enabled reports whether Enable succeeded
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Enable registers the session's decoder on demux and writes the handshake for
// the session kind to stdin. Calling it again is a no-op. Unsupported kinds
// fail with a capability error and leave the session untouched.
func Enable(ctx context.Context, s *Session, demux Demux, stdin io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled {
		return nil
	}

	handshake, err := s.handshake()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	demux.Handle(frame.OSCIdentifier, s.decoder)

	if _, err := io.WriteString(stdin, handshake); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to send session setup")
	}

	s.enabled = true
	s.logger.Info().Msg("Session enabled")
	return nil
}

func (s *Session) handshake() (string, error) {
	switch {
	case shell.IsShell(s.kind):
		dir := s.shellDir
		if dir == "" && s.cfg.Shell.InitDir != "" {
			dir = paths.ExpandHome(s.cfg.Shell.InitDir)
		}
		if dir == "" {
			dir = paths.New().ShellDir()
		}
		if err := shell.EnsureInstalled(s.fs, dir, s.kind); err != nil {
			return "", err
		}
		line, err := shell.SourceLine(s.kind, dir)
		if err != nil {
			return "", err
		}
		return line + "\n", nil

	case s.kind == "python" || s.kind == "ipython":
		return PythonSetup(s.cfg.TypesArgument(), s.cfg.InlineLimit), nil

	default:
		return "", errors.Newf(errors.ErrCapability, "session kind %q is not supported", s.kind).
			WithDetail("kind", s.kind)
	}
}

// KindFor derives a session kind from a command: its base name without
// version suffix or login dash ("python3.12" is "python", "-zsh" is "zsh")
func KindFor(command string) string {
	name := strings.TrimPrefix(filepath.Base(command), "-")
	name = strings.TrimSuffix(name, ".exe")
	return strings.TrimRight(name, "0123456789.")
}
