// Package paths locates termime's files following the XDG Base Directory
// layout:
//
//	$XDG_CONFIG_HOME/termime/config.toml   user configuration (or config.yaml)
//	$XDG_DATA_HOME/termime/shell/          installed shell init scripts
//	$XDG_STATE_HOME/termime/termime.log    log file
//
// TERMIME_CONFIG_DIR and TERMIME_DATA_DIR override the first two.
package paths
