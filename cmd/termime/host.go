package termime

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/termime/pkg/config"
	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/logging"
	"github.com/arthur-debert/termime/pkg/osc"
	"github.com/arthur-debert/termime/pkg/paths"
	"github.com/arthur-debert/termime/pkg/render"
	"github.com/arthur-debert/termime/pkg/session"
	"github.com/arthur-debert/termime/pkg/style"
)

// host connects a session to an output stream: ordinary output passes
// through the scanner, frames reach the session's decoder
type host struct {
	session *session.Session
	scanner *osc.Scanner
	sink    *render.TerminalSink
	logger  zerolog.Logger
}

func newHost(kind string, cfg *config.Config, out io.Writer) (*host, error) {
	sink := render.NewTerminalSink(out)
	s, err := session.New(kind, cfg, sink,
		session.WithTheme(style.Default(style.NewRenderer(out))),
		session.WithWidth(style.Width(out)),
		session.WithColor(style.IsTerminal(out)),
	)
	if err != nil {
		return nil, err
	}

	scanner := osc.NewScanner(sink)
	if cfg.MaxSequence > 0 {
		scanner.SetMaxSequence(cfg.MaxSequence)
	}

	return &host{
		session: s,
		scanner: scanner,
		sink:    sink,
		logger:  logging.GetLogger("cmd.host"),
	}, nil
}

// filter copies r through the scanner until EOF
func (h *host) filter(r io.Reader) error {
	done := logging.LogOperationStart(h.logger, "filter")
	defer done()

	_, err := io.Copy(h.scanner, r)
	if ferr := h.scanner.Flush(); err == nil {
		err = ferr
	}

	stats := h.session.Decoder().Stats()
	h.logger.Info().
		Str("stats", stats.String()).
		Int("regions", len(h.sink.Regions())).
		Msg("Stream finished")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to filter stream")
	}
	return nil
}

// watch reloads the session whenever the configuration file changes, until
// ctx is done. Failed reloads keep the current configuration.
func (h *host) watch(ctx context.Context, opts config.Options, cfg *config.Config) {
	path := cfg.Source
	if path == "" {
		path = opts.Path
	}
	if path == "" {
		path = filepath.Join(paths.New().ConfigDir(), paths.ConfigFileNames[0])
	}

	go func() {
		err := config.Watch(ctx, path, opts, func(next *config.Config, err error) {
			if err != nil {
				return
			}
			if err := h.session.Reconfigure(next); err != nil {
				h.logger.Warn().Err(err).Msg("Keeping previous configuration")
				return
			}
			h.logger.Info().Str("path", path).Msg(MsgConfigReloaded)
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("path", path).Msg(MsgErrWatch)
		}
	}()
}

// loadConfig loads the configuration selected by the persistent --config flag
func loadConfig(cmd *cobra.Command) (*config.Config, config.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	opts := config.Options{Path: path}
	cfg, err := config.Load(opts)
	return cfg, opts, err
}
