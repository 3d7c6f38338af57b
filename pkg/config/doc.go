// Package config loads termime's configuration.
//
// Layers, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file: --config, or config.toml / config.yaml in
//     $XDG_CONFIG_HOME/termime
//  3. TERMIME_* environment variables, "__" separating nested keys
//     (TERMIME_IMAGE__PROTOCOL=kitty, TERMIME_INLINE_LIMIT=8000)
//
// A user file that sets rules replaces the default rule list as a whole.
package config
