package termime

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termime/pkg/config"
	"github.com/arthur-debert/termime/pkg/errors"
)

const textFrame = "\x1b]5151;{\"type\":\"text/plain\"}\naGk=\x1b\\"

type env struct {
	configDir string
	dataDir   string
}

func isolate(t *testing.T) env {
	t.Helper()
	e := env{configDir: t.TempDir(), dataDir: t.TempDir()}
	t.Setenv("TERMIME_CONFIG_DIR", e.configDir)
	t.Setenv("TERMIME_DATA_DIR", e.dataDir)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	return e
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRender_Stdin(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "before "+textFrame+"after\n", "render")
	require.NoError(t, err)
	assert.Equal(t, "before hi\nafter\n", out)
}

func TestRender_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "session.log")
	require.NoError(t, os.WriteFile(path, []byte(textFrame), 0o644))

	out, _, err := execute(t, "", "render", path)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestRender_MissingFile(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "", "render", filepath.Join(t.TempDir(), "missing.log"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileResolution))
}

func TestRender_MalformedFrameIsDropped(t *testing.T) {
	isolate(t)

	stream := "\x1b]5151;{not json\naGk=\x1b\\" + "\x1b]2;title\x07" + textFrame
	out, _, err := execute(t, stream, "render")
	require.NoError(t, err)
	assert.Equal(t, "\x1b]2;title\x07hi\n", out)
}

func TestRender_UserRules(t *testing.T) {
	e := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.toml"), []byte(`
[[rules]]
pattern = "text/plain"
kind = "exact"
renderer = "dump"
`), 0o644))

	out, _, err := execute(t, textFrame, "render")
	require.NoError(t, err)
	assert.Equal(t, "termime: {\"type\":\"text/plain\"}\nhi\n", out)
}

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	e := isolate(t)

	out, _, err := execute(t, "", "run", "--kind", "sh", "--",
		"sh", "-c", `printf 'ready '; printf '\033]5151;{"type":"text/plain"}\naGk=\033\\'`)
	require.NoError(t, err)
	assert.Equal(t, "ready hi\n", out)

	_, err = os.Stat(filepath.Join(e.dataDir, "shell", "termime-init.sh"))
	assert.NoError(t, err, "the init script is installed for shell sessions")
}

func TestRun_Errors(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "", "run")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))

	_, _, err = execute(t, "", "run", "--kind", "lisp", "--", "sbcl")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCapability))
}

func TestInit(t *testing.T) {
	e := isolate(t)
	script := filepath.Join(e.dataDir, "shell", "termime-init.sh")

	out, _, err := execute(t, "", "init", "zsh")
	require.NoError(t, err)
	assert.Equal(t, `[ -f "`+script+`" ] && source "`+script+`"`+"\n", out)

	_, err = os.Stat(script)
	assert.True(t, os.IsNotExist(err), "nothing is installed without --install")

	_, errOut, err := execute(t, "", "init", "--install", "fish")
	require.NoError(t, err)
	assert.Contains(t, errOut, filepath.Join(e.dataDir, "shell"))
	assert.FileExists(t, script)
	assert.FileExists(t, filepath.Join(e.dataDir, "shell", "termime-init.fish"))

	_, _, err = execute(t, "", "init", "tcsh")
	assert.Error(t, err)
}

func TestRules(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "rules")
	require.NoError(t, err)
	for _, want := range []string{"Pattern", "Renderer", "svg", "markdown", "dump", "any"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "Renderers: dump, html, image, json, latex, markdown, svg, text\n")
}

func TestConfig(t *testing.T) {
	e := isolate(t)

	out, _, err := execute(t, "", "config", "--defaults")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultsTOML()), out)

	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.toml"), []byte("inline_limit = 10\n"), 0o644))
	out, _, err = execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "inline_limit = 10")
	assert.Contains(t, out, "[[rules]]")
}

func TestConfig_ExplicitMissing(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.toml"), "config")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "termime version dev\n"))
}

func TestHelpTopics(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "protocol")
	assert.Contains(t, out, "--watch")

	out, _, err = execute(t, "", "help", "protocol")
	require.NoError(t, err)
	assert.Contains(t, out, "5151")
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "termime")
}

func TestNoCommand(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
}
