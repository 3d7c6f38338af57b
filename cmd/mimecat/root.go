// Package mimecat implements the mimecat command, the emitting side of
// termime.
package mimecat

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/termime/internal/version"
	"github.com/arthur-debert/termime/pkg/emitter"
	"github.com/arthur-debert/termime/pkg/logging"
)

// NewRootCmd creates the mimecat command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		mimeType  string
		meta      []string
	)

	cmd := &cobra.Command{
		Use:     "mimecat [FILE]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := emitter.ParseMeta(meta)
			if err != nil {
				return err
			}

			req := emitter.Request{Type: mimeType, Meta: pairs}
			if len(args) == 1 {
				req.Path = args[0]
			}
			return emitter.New(cmd.InOrStdin(), cmd.OutOrStdout()).Emit(req)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&mimeType, "type", "t", "", MsgFlagType)
	cmd.Flags().StringArrayVar(&meta, "meta", nil, MsgFlagMeta)
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	return cmd
}
