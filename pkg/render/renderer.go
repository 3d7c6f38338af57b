package render

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/registry"
	"github.com/arthur-debert/termime/pkg/rules"
	"github.com/arthur-debert/termime/pkg/style"
)

// Renderer turns a decoded payload into output on a sink
type Renderer interface {
	Render(h frame.Header, data []byte, sink Sink) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(h frame.Header, data []byte, sink Sink) error

// Render calls f
func (f RendererFunc) Render(h frame.Header, data []byte, sink Sink) error {
	return f(h, data, sink)
}

// Image protocols understood by the image renderer
const (
	ProtocolNone   = "none"
	ProtocolKitty  = "kitty"
	ProtocolITerm2 = "iterm2"
)

// ImageOptions configure how images reach the outer terminal
type ImageOptions struct {
	Protocol  string `mapstructure:"protocol"`
	MaxWidth  int    `mapstructure:"max_width"`
	CellWidth int    `mapstructure:"cell_width"`
}

// DecodeImageOptions reads image options from a loosely typed option bag.
// Unknown keys are ignored.
func DecodeImageOptions(bag map[string]interface{}) (ImageOptions, error) {
	opts := ImageOptions{Protocol: ProtocolNone, CellWidth: 10}
	if len(bag) == 0 {
		return opts, nil
	}
	if err := mapstructure.WeakDecode(bag, &opts); err != nil {
		return opts, err
	}
	if opts.Protocol == "" {
		opts.Protocol = ProtocolNone
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 10
	}
	return opts, nil
}

// Env is what built-in renderers share: styling, layout width, image setup
type Env struct {
	Theme *style.Theme
	Width int
	Color bool
	Image ImageOptions
}

func (e *Env) width() int {
	if e == nil || e.Width <= 0 {
		return 80
	}
	return e.Width
}

func (e *Env) theme() *style.Theme {
	if e == nil {
		return nil
	}
	return e.Theme
}

// Builtins returns a registry holding every built-in renderer
func Builtins(env *Env) registry.Registry[Renderer] {
	if env == nil {
		env = &Env{Image: ImageOptions{Protocol: ProtocolNone, CellWidth: 10}}
	}

	reg := registry.New[Renderer]()
	img := &Image{env: env}
	registry.MustRegister[Renderer](reg, "svg", &SVG{env: env, image: img})
	registry.MustRegister[Renderer](reg, "image", img)
	registry.MustRegister[Renderer](reg, "html", &HTML{env: env})
	registry.MustRegister[Renderer](reg, "latex", &LaTeX{env: env})
	registry.MustRegister[Renderer](reg, "markdown", &Markdown{env: env})
	registry.MustRegister[Renderer](reg, "json", &JSON{env: env})
	registry.MustRegister[Renderer](reg, "text", &Text{env: env})
	registry.MustRegister[Renderer](reg, "dump", &Dump{env: env})
	return reg
}

// FallbackName names the renderer behind the table's catch-all
const FallbackName = "dump"

// NewTable compiles rules against the named renderers. The catch-all resolves
// to the dump renderer.
func NewTable(reg registry.Registry[Renderer], rs []rules.Rule) (*rules.Table[Renderer], error) {
	fallback, err := reg.Get(FallbackName)
	if err != nil {
		fallback = &Dump{}
	}

	entries, err := rules.Build(rs, reg.Get)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if len(entries[i].Rule.Options) > 0 {
			entries[i].Capability = WithOptions(entries[i].Capability, entries[i].Rule.Options)
		}
	}

	table := rules.NewTable[Renderer](FallbackName, fallback)
	table.Replace(entries)
	return table, nil
}

// DefaultTable builds the default rules over the built-ins
func DefaultTable(env *Env) *rules.Table[Renderer] {
	table, err := NewTable(Builtins(env), rules.DefaultRules())
	if err != nil {
		// Default rules only name built-ins
		panic(err)
	}
	return table
}

// WithOptions returns a renderer that sees options as header defaults. Keys
// sent in the frame header take precedence.
func WithOptions(r Renderer, options map[string]interface{}) Renderer {
	return RendererFunc(func(h frame.Header, data []byte, sink Sink) error {
		merged := make(frame.Header, len(options)+len(h))
		for k, v := range options {
			merged[k] = v
		}
		for k, v := range h {
			merged[k] = v
		}
		return r.Render(merged, data, sink)
	})
}
