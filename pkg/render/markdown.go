package render

import (
	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

// Markdown renders Markdown with glamour
type Markdown struct {
	env *Env
}

// Render implements Renderer
func (r *Markdown) Render(h frame.Header, data []byte, sink Sink) error {
	style := "notty"
	if r.env != nil && r.env.Color {
		style = "dark"
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.env.width()),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrRender, "cannot create markdown renderer")
	}

	out, err := tr.RenderBytes(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrRender, "cannot render markdown")
	}
	sink.Insert(h, string(out))
	return nil
}
