package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"protocol.md":        {Data: []byte("# Protocol\n\nOSC 5151 frames")},
		"option-watch.txt":   {Data: []byte("Reload rules when the config changes")},
		"guides/rules.txt":   {Data: []byte("Rules are matched in order")},
		"guides/config.txxt": {Data: []byte("Configuration Guide")},
		"ignored/notes.json": {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		m, err := Load(testFS(), Options{})
		require.NoError(t, err)

		assert.Equal(t, []string{"option-watch", "protocol", "rules"}, m.ListTopics())

		topic, ok := m.GetTopic("rules")
		require.True(t, ok)
		assert.Equal(t, "Rules are matched in order", topic.Content)
		assert.Equal(t, "guides/rules.txt", topic.FilePath)

		_, ok = m.GetTopic("config")
		assert.False(t, ok)
	})

	t.Run("custom extensions", func(t *testing.T) {
		m, err := Load(testFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"config"}, m.ListTopics())
	})
}

func TestGetTopic_FlagNames(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"--watch", "-watch", "watch", "option-watch"} {
		topic, ok := m.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-watch", topic.Name)
	}
}

type upperRenderer struct{}

func (upperRenderer) Render(content, format string) string {
	if format == ".md" {
		return strings.ToUpper(content)
	}
	return content
}

func TestWriteIndex(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	m.WriteIndex(&out, "termime")

	text := out.String()
	assert.Contains(t, text, "General topics:\n  protocol\n  rules\n")
	assert.Contains(t, text, "Option topics:\n  --watch\n")
	assert.Contains(t, text, "'termime help <topic>'")

	empty, err := Load(fstest.MapFS{}, Options{})
	require.NoError(t, err)
	out.Reset()
	empty.WriteIndex(&out, "termime")
	assert.Equal(t, "No help topics available.\n", out.String())
}

func TestInitialize(t *testing.T) {
	newRoot := func() *cobra.Command {
		root := &cobra.Command{Use: "termime", Short: "root help text"}
		root.AddCommand(&cobra.Command{Use: "rules", Short: "Print the renderer table", Run: func(*cobra.Command, []string) {}})
		return root
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"topic", []string{"help", "protocol"}, "# PROTOCOL"},
		{"plain topic", []string{"help", "rules"}, "Rules are matched in order"},
		{"index", []string{"help", "topics"}, "Available help topics:"},
		{"command", []string{"help", "termime"}, "root help text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot()
			_, err := Initialize(root, testFS(), Options{Renderer: upperRenderer{}})
			require.NoError(t, err)

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs(tt.args)
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestPlainRenderer(t *testing.T) {
	assert.Equal(t, "# raw", (&PlainRenderer{}).Render("# raw", ".md"))
}

func TestGlamourRenderer_PassesThroughText(t *testing.T) {
	assert.Equal(t, "plain", NewGlamourRenderer().Render("plain", ".txt"))
}
