package render

import (
	"encoding/hex"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/termime/pkg/frame"
)

// Dump is the catch-all: it shows the header and the payload, as text when
// printable and as a hex dump otherwise
type Dump struct {
	env *Env
}

// Render implements Renderer
func (r *Dump) Render(h frame.Header, data []byte, sink Sink) error {
	theme := r.env.theme()

	body := string(data)
	if !Printable(data) {
		body = hex.Dump(data)
	}

	sink.Insert(h, fmt.Sprintf("%s %s\n%s",
		theme.Render("Label", "termime:"), theme.Render("Muted", h.JSON()), body))
	return nil
}

// Printable reports whether data is UTF-8 text without control characters
// other than whitespace
func Printable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
