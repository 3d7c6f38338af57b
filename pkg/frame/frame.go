package frame

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/arthur-debert/termime/pkg/errors"
)

const (
	// OSCIdentifier is the private OSC number assigned to termime frames
	OSCIdentifier = 5151

	// Introducer starts a frame on the terminal stream
	Introducer = "\x1b]5151;"

	// Terminator ends a frame (ESC \, the string terminator)
	Terminator = "\x1b\\"
)

// Header is the decoded JSON header of a frame
type Header map[string]interface{}

// Type returns the MIME type declared by the header
func (h Header) Type() string {
	return h.String("type")
}

// String returns a string valued header key, or "" when absent or not a string
func (h Header) String(key string) string {
	if v, ok := h[key].(string); ok {
		return v
	}
	return ""
}

// JSON renders the header as compact JSON with "type" first and the other
// keys sorted
func (h Header) JSON() string {
	out, _ := sjson.Set("", "type", h.Type())

	keys := make([]string, 0, len(h))
	for k := range h {
		if k != "type" && k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if next, err := sjson.Set(out, escapeKey(k), h[k]); err == nil {
			out = next
		}
	}
	return out
}

// Frame is one decoded unit of the protocol. It lives for a single decode and
// render call.
type Frame struct {
	Type      string
	Header    Header
	RawHeader string
	Payload   []byte
}

// SplitBody splits a frame body at its first newline into the header line and
// the payload region. A body without a newline is all header.
func SplitBody(body string) (header, region string) {
	header, region, _ = strings.Cut(body, "\n")
	return strings.TrimSuffix(header, "\r"), region
}

// ParseHeader parses a header line. The line must be a JSON object with a
// string "type" key.
func ParseHeader(line string) (Header, error) {
	line = strings.TrimSpace(line)
	if !gjson.Valid(line) {
		return nil, errors.New(errors.ErrHeaderParse, "header is not valid JSON").
			WithDetail("header", line)
	}

	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return nil, errors.New(errors.ErrHeaderParse, "header is not a JSON object").
			WithDetail("header", line)
	}

	typ := parsed.Get("type")
	if typ.Type != gjson.String || typ.String() == "" {
		return nil, errors.New(errors.ErrHeaderParse, "header has no type").
			WithDetail("header", line)
	}

	values, ok := parsed.Value().(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrHeaderParse, "header is not a JSON object").
			WithDetail("header", line)
	}
	return Header(values), nil
}

// Decode parses a frame body, as handed over by the OSC demultiplexer with
// introducer and terminator already stripped, and materializes its payload.
func Decode(body string, r *Resolver) (*Frame, error) {
	line, region := SplitBody(body)

	header, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}

	payload, err := r.Materialize(region)
	if err != nil {
		return nil, err
	}

	return &Frame{
		Type:      header.Type(),
		Header:    header,
		RawHeader: strings.TrimSpace(line),
		Payload:   payload,
	}, nil
}
