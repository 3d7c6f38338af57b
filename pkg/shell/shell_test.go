// TEST TYPE: Unit Tests
// PURPOSE: Test init script snippets and installation

package shell_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/shell"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		name           string
		shell          string
		dir            string
		expectedResult string
	}{
		{
			name:           "bash",
			shell:          "bash",
			dir:            "/custom/termime/shell",
			expectedResult: `[ -f "/custom/termime/shell/termime-init.sh" ] && source "/custom/termime/shell/termime-init.sh"`,
		},
		{
			name:           "zsh",
			shell:          "zsh",
			dir:            "/test/data/shell",
			expectedResult: `[ -f "/test/data/shell/termime-init.sh" ] && source "/test/data/shell/termime-init.sh"`,
		},
		{
			name:           "sh",
			shell:          "sh",
			dir:            "/d",
			expectedResult: `[ -f "/d/termime-init.sh" ] && . "/d/termime-init.sh"`,
		},
		{
			name:  "fish",
			shell: "fish",
			dir:   "/home/user/.local/share/termime/shell",
			expectedResult: `if test -f "/home/user/.local/share/termime/shell/termime-init.fish"
    source "/home/user/.local/share/termime/shell/termime-init.fish"
end`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shell.Snippet(tt.shell, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedResult, got)
		})
	}

	_, err := shell.Snippet("tcsh", "/d")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCapability))
}

func TestSourceLine(t *testing.T) {
	line, err := shell.SourceLine("zsh", "/d")
	require.NoError(t, err)
	assert.Equal(t, `source "/d/termime-init.sh"`, line)

	line, err = shell.SourceLine("sh", "/d")
	require.NoError(t, err)
	assert.Equal(t, `. "/d/termime-init.sh"`, line)

	line, err = shell.SourceLine("fish", "/d")
	require.NoError(t, err)
	assert.Equal(t, `source "/d/termime-init.fish"`, line)
}

func TestScript(t *testing.T) {
	sh, err := shell.Script("bash")
	require.NoError(t, err)
	assert.Contains(t, string(sh), "mimecat()")
	assert.Contains(t, string(sh), `\033]5151;`)

	fish, err := shell.Script("fish")
	require.NoError(t, err)
	assert.Contains(t, string(fish), "function mimecat")
}

// runHelper runs the POSIX mimecat function defined by the init script
func runHelper(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if _, err := exec.LookPath("mimecat"); err == nil {
		t.Skip("a mimecat binary on PATH shadows the shell helper")
	}

	script, err := shell.Script("sh")
	require.NoError(t, err)

	cmd := exec.Command("sh", append([]string{"-c", string(script) + "\nmimecat \"$@\"", "sh"}, args...)...)
	out, err := cmd.Output()
	return string(out), err
}

func TestScript_HelperReferencesResolvedEncodedPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "100%25done.txt")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.WriteFile(target, []byte("done"), 0o644))
	require.NoError(t, os.Symlink(target, link))
	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)

	out, err := runHelper(t, "-t", "text/plain", link)
	require.NoError(t, err)

	wire := strings.TrimSuffix(strings.TrimPrefix(out, frame.Introducer), frame.Terminator)
	header, region := frame.SplitBody(wire)
	assert.Equal(t, `{"type":"text/plain"}`, header)
	assert.True(t, strings.HasSuffix(region, "/100%2525done.txt"), "region %q", region)

	resolver := frame.NewResolver(nil)
	_, path, err := resolver.LocalPath(region)
	require.NoError(t, err)
	assert.Equal(t, resolved, path)

	f, err := frame.Decode(wire, resolver)
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), f.Payload)
}

func TestScript_HelperRejectsQuotedType(t *testing.T) {
	out, err := runHelper(t, "-t", `text/"plain`, "/etc/hosts")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestInstall(t *testing.T) {
	fs := afero.NewMemMapFs()

	written, err := shell.Install(fs, "/data/termime/shell")
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, path := range written {
		info, err := fs.Stat(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(path), "termime-init."))
		assert.NotZero(t, info.Size())
	}

	_, err = shell.Install(fs, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestEnsureInstalled(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/data/shell"

	require.NoError(t, shell.EnsureInstalled(fs, dir, "zsh"))
	exists, err := afero.Exists(fs, filepath.Join(dir, "termime-init.sh"))
	require.NoError(t, err)
	assert.True(t, exists)

	// A stale copy is replaced
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "termime-init.sh"), []byte("old"), 0o755))
	require.NoError(t, shell.EnsureInstalled(fs, dir, "bash"))
	content, err := afero.ReadFile(fs, filepath.Join(dir, "termime-init.sh"))
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(content))
}
