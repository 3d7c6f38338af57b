package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

// SVG renders SVG documents. With the iTerm2 protocol the document is
// forwarded as an inline image, otherwise a placeholder names its size and title.
// kitty graphics only carry PNG or raw pixels, so kitty gets the placeholder.
type SVG struct {
	env   *Env
	image *Image
}

// Render implements Renderer
func (r *SVG) Render(h frame.Header, data []byte, sink Sink) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return errors.Wrap(err, errors.ErrRender, "invalid SVG document")
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return errors.New(errors.ErrRender, "document root is not <svg>")
	}

	if r.image != nil && r.env != nil && r.env.Image.Protocol == ProtocolITerm2 {
		return r.image.emitITerm2(h, data, 0, sink)
	}

	width := root.SelectAttrValue("width", "")
	height := root.SelectAttrValue("height", "")
	if width == "" || height == "" {
		if vb := strings.Fields(strings.ReplaceAll(root.SelectAttrValue("viewBox", ""), ",", " ")); len(vb) == 4 {
			width, height = vb[2], vb[3]
		}
	}

	label := "SVG"
	if width != "" && height != "" {
		label = fmt.Sprintf("SVG %s×%s", width, height)
	}
	if title := root.FindElement("title"); title != nil {
		if text := strings.TrimSpace(title.Text()); text != "" {
			label += " · " + text
		}
	}

	sink.Insert(h, placeholder(r.env, label))
	return nil
}

func placeholder(env *Env, label string) string {
	theme := env.theme()
	return theme.Render("Placeholder", theme.Render("Label", label))
}
