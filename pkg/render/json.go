package render

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

// JSON renders JSON documents indented, coloured on colour terminals
type JSON struct {
	env *Env
}

// Render implements Renderer
func (r *JSON) Render(h frame.Header, data []byte, sink Sink) error {
	if !gjson.ValidBytes(data) {
		return errors.New(errors.ErrRender, "payload is not valid JSON")
	}

	out := pretty.PrettyOptions(data, &pretty.Options{
		Width:    r.env.width(),
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
	if r.env != nil && r.env.Color {
		out = pretty.Color(out, pretty.TerminalStyle)
	}
	sink.Insert(h, string(out))
	return nil
}
