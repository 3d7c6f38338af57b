package termime

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Render rich content inline in terminal sessions"
	MsgRenderShort     = "Render the frames in a terminal stream"
	MsgRunShort        = "Run a command with frame rendering enabled"
	MsgInitShort       = "Print the shell integration snippet"
	MsgRulesShort      = "Show the effective renderer table"
	MsgRulesLong       = "Rules lists the renderer table in evaluation order, the catch-all last."
	MsgConfigShort     = "Show the effective configuration as TOML"
	MsgConfigLong      = "Config prints the configuration after defaults, the user file and TERMIME_* variables are merged."
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgScriptsInstalled = "Shell integration scripts installed to %s\n"
	MsgRulesHeader      = "#|Pattern|Kind|Renderer|Options"
	MsgRulesRenderers   = "Renderers: %s\n"
	MsgConfigReloaded   = "Configuration reloaded"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrRunNoCommand = "run needs a command after --"
	MsgErrWatch        = "cannot watch configuration"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Configuration file (default $XDG_CONFIG_HOME/termime/config.toml)"
	MsgFlagWatch    = "Reload the renderer table when the configuration file changes"
	MsgFlagKind     = "Session kind (bash, zsh, sh, fish, python, ipython); derived from CMD when empty"
	MsgFlagInstall  = "Install the init scripts into the data directory"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/render-long.txt
	msgRenderLongRaw string
	MsgRenderLong    = strings.TrimSpace(msgRenderLongRaw)

	//go:embed msgs/render-example.txt
	msgRenderExampleRaw string
	MsgRenderExample    = strings.TrimRight(msgRenderExampleRaw, "\n")

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
