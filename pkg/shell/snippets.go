package shell

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/paths"
)

// Kinds are the shells with an init script
var Kinds = []string{"bash", "zsh", "sh", "fish"}

// IsShell reports whether kind names a supported shell
func IsShell(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Snippet returns the line a shell evaluates to load termime's init script
// from dir (the directory holding the installed scripts)
func Snippet(shell, dir string) (string, error) {
	if !IsShell(shell) {
		return "", errors.Newf(errors.ErrCapability, "unsupported shell %q", shell)
	}

	script := filepath.Join(dir, paths.InitScriptFor(shell))
	switch shell {
	case "fish":
		return fmt.Sprintf(`if test -f "%s"
    source "%s"
end`, script, script), nil
	case "sh":
		return fmt.Sprintf(`[ -f "%s" ] && . "%s"`, script, script), nil
	default:
		return fmt.Sprintf(`[ -f "%s" ] && source "%s"`, script, script), nil
	}
}

// SourceLine returns a single line that loads the init script, suitable for
// typing into a running shell
func SourceLine(shell, dir string) (string, error) {
	if !IsShell(shell) {
		return "", errors.Newf(errors.ErrCapability, "unsupported shell %q", shell)
	}

	script := filepath.Join(dir, paths.InitScriptFor(shell))
	if shell == "sh" {
		return fmt.Sprintf(`. "%s"`, script), nil
	}
	return fmt.Sprintf(`source "%s"`, script), nil
}
