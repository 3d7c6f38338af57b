// Package topics adds file based help topics to a Cobra application. Topics
// are read from an fs.FS, usually an embedded directory, and shown through
// "help <topic>" next to the regular command help.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Manager holds the topics found in a file system
type Manager struct {
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// Topic is one help document
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures a Manager
type Options struct {
	// Extensions lists the file extensions treated as topics, [".txt", ".md"]
	// when empty
	Extensions []string

	// Renderer formats topics, PlainRenderer when nil
	Renderer Renderer
}

// Load scans fsys for topic files. Topic names are file names without
// extension; subdirectories are scanned too.
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, FilePath: p, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// GetTopic looks a topic up by name. Flag style names ("--watch") also match
// "option-watch".
func (m *Manager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics["option-"+name]
	return topic, ok
}

// ListTopics returns the topic names, sorted
func (m *Manager) ListTopics() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns a topic formatted by the manager's renderer
func (m *Manager) Render(t *Topic) string {
	return m.renderer.Render(t.Content, path.Ext(t.FilePath))
}

// WriteIndex writes the list of topics, option topics listed separately
func (m *Manager) WriteIndex(w io.Writer, program string) {
	names := m.ListTopics()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if opt, ok := strings.CutPrefix(name, "option-"); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Initialize loads the topics in fsys and replaces root's help command with
// one that also knows about them
func Initialize(root *cobra.Command, fsys fs.FS, opts Options) (*Manager, error) {
	m, err := Load(fsys, opts)
	if err != nil {
		return nil, err
	}

	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + root.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + root.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				originalHelp(root, nil)
			case args[0] == "topics":
				m.WriteIndex(cmd.OutOrStdout(), root.Name())
			default:
				if topic, ok := m.GetTopic(args[0]); ok {
					fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
					return
				}
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					originalHelp(root, args)
					return
				}
				originalHelp(target, nil)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.AddCommand(helpCmd)

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.GetTopic(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
				return
			}
		}
		originalHelp(cmd, args)
	})

	return m, nil
}
