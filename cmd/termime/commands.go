package termime

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/termime/internal/version"
	"github.com/arthur-debert/termime/pkg/config"
	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/logging"
	"github.com/arthur-debert/termime/pkg/paths"
	"github.com/arthur-debert/termime/pkg/render"
	"github.com/arthur-debert/termime/pkg/session"
	"github.com/arthur-debert/termime/pkg/shell"
	"github.com/arthur-debert/termime/pkg/style"
)

func newRenderCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "render [FILE]",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, errors.ErrFileResolution, "cannot open %s", args[0]).
						WithDetail("path", args[0])
				}
				defer f.Close()
				in = f
			}

			h, err := newHost("", cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			h.scanner.Handle(frame.OSCIdentifier, h.session.Decoder())

			if watch {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				h.watch(ctx, opts, cfg)
			}

			return h.filter(in)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		kind  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "run [--kind KIND] -- CMD [ARGS...]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.ErrUsage, MsgErrRunNoCommand)
			}
			if kind == "" {
				kind = session.KindFor(args[0])
			}

			cfg, opts, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			h, err := newHost(kind, cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			return runChild(ctx, h, args, cmd.InOrStdin(), cmd.ErrOrStderr(), func() {
				if watch {
					h.watch(ctx, opts, cfg)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", MsgFlagKind)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// runChild starts argv with its stdout filtered through h. The session is
// enabled before the child starts, so an unsupported kind runs nothing.
func runChild(ctx context.Context, h *host, argv []string, stdin io.Reader, stderr io.Writer, started func()) error {
	logger := logging.GetLogger("cmd.run")

	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Stderr = stderr

	childIn, err := child.StdinPipe()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot create stdin pipe")
	}
	childOut, err := child.StdoutPipe()
	if err != nil {
		childIn.Close()
		return errors.Wrap(err, errors.ErrInternal, "cannot create stdout pipe")
	}

	if err := session.Enable(ctx, h.session, h.scanner, childIn); err != nil {
		childIn.Close()
		return err
	}

	if err := child.Start(); err != nil {
		childIn.Close()
		return errors.Wrapf(err, errors.ErrFileResolution, "cannot start %s", argv[0]).
			WithDetail("command", argv[0])
	}
	logger.Info().Strs("argv", argv).Int("pid", child.Process.Pid).Msg("Child started")
	started()

	go func() {
		if _, err := io.Copy(childIn, stdin); err != nil {
			logger.Debug().Err(err).Msg("Stdin forwarding stopped")
		}
		childIn.Close()
	}()

	filterErr := h.filter(childOut)
	if err := child.Wait(); err != nil {
		return err
	}
	return filterErr
}

func newInitCmd() *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:       "init [bash|zsh|sh|fish]",
		Short:     MsgInitShort,
		Long:      MsgInitLong,
		Example:   MsgInitExample,
		GroupID:   "core",
		ValidArgs: shell.Kinds,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := defaultShell()
			if len(args) == 1 {
				kind = args[0]
			}

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := paths.ExpandHome(cfg.Shell.InitDir)
			if dir == "" {
				dir = paths.New().ShellDir()
			}

			if install {
				if _, err := shell.Install(afero.NewOsFs(), dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), MsgScriptsInstalled, dir)
			}

			snippet, err := shell.Snippet(kind, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snippet)
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, MsgFlagInstall)
	return cmd
}

// defaultShell is the basename of $SHELL when it is a supported shell
func defaultShell() string {
	if kind := session.KindFor(os.Getenv("SHELL")); shell.IsShell(kind) {
		return kind
	}
	return "bash"
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := session.New("", cfg, render.NewTerminalSink(io.Discard))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !style.IsTerminal(out) {
				pterm.DisableStyling()
				defer pterm.EnableStyling()
			}

			data := pterm.TableData{strings.Split(MsgRulesHeader, "|")}
			for i, e := range s.Table().Entries() {
				kind := string(e.Rule.Kind)
				if kind == "" {
					kind = "regexp"
				}
				data = append(data, []string{
					strconv.Itoa(i + 1), e.Rule.Pattern, kind, e.Rule.Renderer, formatOptions(e.Rule.Options),
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to render rules table")
			}
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, MsgRulesRenderers, strings.Join(s.Renderers(), ", "))
			return nil
		},
	}
}

func formatOptions(options map[string]interface{}) string {
	if len(options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, options[k]))
	}
	return strings.Join(parts, " ")
}

func newConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(config.DefaultsTOML())
				return err
			}

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				log.Info().Str("path", cfg.Source).Msg("Using config file")
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd.Run == nil {
				return errors.New(errors.ErrNotFound, "help command not found")
			}
			helpCmd.SetOut(cmd.OutOrStdout())
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String("termime"))
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
