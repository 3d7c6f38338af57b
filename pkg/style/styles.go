package style

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/termime/pkg/errors"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold             bool   `yaml:"bold,omitempty"`
	Italic           bool   `yaml:"italic,omitempty"`
	Underline        bool   `yaml:"underline,omitempty"`
	Foreground       string `yaml:"foreground,omitempty"`
	Background       string `yaml:"background,omitempty"`
	Border           string `yaml:"border,omitempty"`
	BorderForeground string `yaml:"borderForeground,omitempty"`
	PaddingLeft      int    `yaml:"paddingLeft,omitempty"`
	PaddingRight     int    `yaml:"paddingRight,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Theme is a set of named styles bound to one lipgloss renderer
type Theme struct {
	renderer *lipgloss.Renderer
	colors   map[string]lipgloss.AdaptiveColor
	styles   map[string]lipgloss.Style
}

// Load builds a theme from YAML data. A nil renderer uses lipgloss' default.
func Load(data []byte, r *lipgloss.Renderer) (*Theme, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	t := &Theme{
		renderer: r,
		colors:   make(map[string]lipgloss.AdaptiveColor, len(config.Colors)),
		styles:   make(map[string]lipgloss.Style, len(config.Styles)),
	}
	for name, def := range config.Colors {
		t.colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}
	for name, def := range config.Styles {
		t.styles[name] = t.build(def)
	}
	return t, nil
}

// Default returns the embedded theme bound to r
func Default(r *lipgloss.Renderer) *Theme {
	t, err := Load(embeddedStyles, r)
	if err != nil {
		// The embedded file is part of the build; fall back to unstyled output
		return &Theme{renderer: r, styles: map[string]lipgloss.Style{}}
	}
	return t
}

func (t *Theme) build(def StyleDef) lipgloss.Style {
	style := t.renderer.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := t.colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := t.colors[def.Background]; ok {
		style = style.Background(color)
	}

	switch def.Border {
	case "rounded":
		style = style.Border(lipgloss.RoundedBorder())
	case "normal":
		style = style.Border(lipgloss.NormalBorder())
	case "double":
		style = style.Border(lipgloss.DoubleBorder())
	}
	if color, ok := t.colors[def.BorderForeground]; ok {
		style = style.BorderForeground(color)
	}

	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}
	return style
}

// Get returns the named style, or a plain one when the theme does not define it
func (t *Theme) Get(name string) lipgloss.Style {
	if t != nil {
		if s, ok := t.styles[name]; ok {
			return s
		}
		if t.renderer != nil {
			return t.renderer.NewStyle()
		}
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to s
func (t *Theme) Render(name, s string) string {
	return t.Get(name).Render(s)
}

// Names lists the styles the theme defines
func (t *Theme) Names() []string {
	names := make([]string, 0, len(t.styles))
	for name := range t.styles {
		names = append(names, name)
	}
	return names
}
