package style

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termime/pkg/errors"
)

func TestDefaultTheme(t *testing.T) {
	theme := Default(lipgloss.NewRenderer(io.Discard))

	for _, name := range []string{"Placeholder", "Label", "Heading", "Link", "Code", "Muted", "Error", "Math"} {
		assert.Contains(t, theme.Names(), name)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]byte("colors: [unclosed"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestRender_PlainOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	theme := Default(NewRenderer(&buf))

	assert.Equal(t, "hello", theme.Render("Label", "hello"))
	assert.Equal(t, "x", theme.Render("Missing", "x"))
}

func TestRender_Border(t *testing.T) {
	theme := Default(NewRenderer(io.Discard))
	out := theme.Render("Placeholder", "svg")

	assert.Contains(t, out, "svg")
	assert.Contains(t, out, "╭")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsTerminal(io.Discard))
}

func TestWidth(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	assert.Equal(t, 120, Width(&bytes.Buffer{}))

	t.Setenv("COLUMNS", "wide")
	assert.Equal(t, 0, Width(&bytes.Buffer{}))
}
