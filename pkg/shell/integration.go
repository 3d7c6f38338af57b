package shell

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/paths"
)

//go:embed scripts/termime-init.sh scripts/termime-init.fish
var scripts embed.FS

// Script returns the init script for shell
func Script(shell string) ([]byte, error) {
	if !IsShell(shell) {
		return nil, errors.Newf(errors.ErrCapability, "unsupported shell %q", shell)
	}
	return scripts.ReadFile("scripts/" + paths.InitScriptFor(shell))
}

// Install writes the init scripts into dir, creating it if needed, and
// returns the paths written
func Install(fs afero.Fs, dir string) ([]string, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "shell directory cannot be empty")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileResolution, "failed to create shell directory %s", dir)
	}

	var written []string
	for _, name := range []string{paths.InitScriptName, paths.FishInitScriptName} {
		content, err := scripts.ReadFile("scripts/" + name)
		if err != nil {
			return written, errors.Wrapf(err, errors.ErrInternal, "missing embedded script %s", name)
		}

		dest := filepath.Join(dir, name)
		if err := afero.WriteFile(fs, dest, content, 0o755); err != nil {
			return written, errors.Wrapf(err, errors.ErrFileResolution, "failed to write %s", dest)
		}
		written = append(written, dest)
		log.Info().Str("script", name).Str("dest", dest).Msg("Installed shell integration script")
	}
	return written, nil
}

// EnsureInstalled installs the scripts unless the one for shell is already in
// dir and matches the embedded version
func EnsureInstalled(fs afero.Fs, dir, shell string) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	want, err := Script(shell)
	if err != nil {
		return err
	}

	have, err := afero.ReadFile(fs, filepath.Join(dir, paths.InitScriptFor(shell)))
	if err == nil && string(have) == string(want) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("Reinstalling unreadable init script")
	}

	_, err = Install(fs, dir)
	return err
}
