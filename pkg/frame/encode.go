package frame

import (
	"bytes"
	"encoding/base64"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/arthur-debert/termime/pkg/errors"
)

// Encoder writes frames to a terminal stream
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Inline writes a frame carrying data as Base64
func (e *Encoder) Inline(typ string, data []byte, meta map[string]string) error {
	return e.write(typ, base64.StdEncoding.EncodeToString(data), meta)
}

// Reference writes a frame whose payload is a file: or tmpfile: URI
func (e *Encoder) Reference(typ, uri string, meta map[string]string) error {
	if !IsReference(uri) {
		return errors.Newf(errors.ErrInvalidInput, "not a reference URI: %q", uri)
	}
	return e.write(typ, uri, meta)
}

// write assembles the whole frame first so a failure never leaves half a
// sequence on the terminal
func (e *Encoder) write(typ, payload string, meta map[string]string) error {
	header, err := BuildHeader(typ, meta)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(Introducer) + len(header) + 1 + len(payload) + len(Terminator))
	buf.WriteString(Introducer)
	buf.WriteString(header)
	buf.WriteByte('\n')
	buf.WriteString(payload)
	buf.WriteString(Terminator)

	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write frame")
	}
	return nil
}

// BuildHeader renders the single-line JSON header. "type" always comes first
// and cannot be overridden by meta.
func BuildHeader(typ string, meta map[string]string) (string, error) {
	if typ == "" {
		return "", errors.New(errors.ErrInvalidInput, "frame type cannot be empty")
	}

	header, err := sjson.Set("", "type", typ)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to build header")
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		if k != "type" && k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		next, err := sjson.Set(header, escapeKey(k), meta[k])
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInternal, "failed to set header key %q", k)
		}
		// sjson reports an unmatched complex path as success with no change
		if next == header {
			return "", errors.Newf(errors.ErrInvalidInput, "header key %q cannot be encoded", k)
		}
		header = next
	}
	return header, nil
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
	"!", `\!`,
	":", `\:`,
)

// escapeKey keeps sjson from reading a header key as a path
func escapeKey(k string) string {
	return pathEscaper.Replace(k)
}
