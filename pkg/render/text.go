package render

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

// Text renders text payloads, decoding them from the charset named in the
// header (UTF-8 when absent)
type Text struct {
	env *Env
}

// Render implements Renderer
func (r *Text) Render(h frame.Header, data []byte, sink Sink) error {
	text, err := DecodeCharset(data, Charset(h))
	if err != nil {
		return err
	}
	sink.Insert(h, text)
	return nil
}

// Charset returns the charset of a frame: the "charset" header key, or the
// charset parameter of its type
func Charset(h frame.Header) string {
	if cs := h.String("charset"); cs != "" {
		return cs
	}
	for _, param := range strings.Split(h.Type(), ";")[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(k, "charset") {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

// DecodeCharset converts data in the named charset to UTF-8
func DecodeCharset(data []byte, charset string) (string, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return string(data), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "unknown charset %q", charset)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "cannot decode %s text", charset)
	}
	return string(out), nil
}
