package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	// Decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

const kittyChunk = 4096

// Image renders raster images by re-emitting them to the outer terminal
// through a graphics protocol, or as a placeholder.
type Image struct {
	env *Env
}

// Render implements Renderer
func (r *Image) Render(h frame.Header, data []byte, sink Sink) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, errors.ErrRender, "cannot read %s image", h.Type())
	}

	opts := r.options(h)
	switch opts.Protocol {
	case ProtocolKitty:
		return r.emitKitty(h, data, format, cfg, opts, sink)
	case ProtocolITerm2:
		return r.emitITerm2(h, data, cfg.Width, sink)
	case ProtocolNone, "":
		sink.Insert(h, placeholder(r.env, fmt.Sprintf("%s %d×%d", h.Type(), cfg.Width, cfg.Height)))
		return nil
	default:
		return errors.Newf(errors.ErrRender, "unknown image protocol %q", opts.Protocol)
	}
}

// options overlays header keys (protocol, max_width) on the configured ones
func (r *Image) options(h frame.Header) ImageOptions {
	opts := ImageOptions{Protocol: ProtocolNone, CellWidth: 10}
	if r.env != nil {
		opts = r.env.Image
	}
	if p := h.String("protocol"); p != "" {
		opts.Protocol = p
	}
	if w, ok := intValue(h["max_width"]); ok {
		opts.MaxWidth = w
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 10
	}
	return opts
}

func (r *Image) emitKitty(h frame.Header, data []byte, format string, cfg image.Config, opts ImageOptions, sink Sink) error {
	if format != "png" {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(err, errors.ErrRender, "cannot convert image for kitty")
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return errors.Wrap(err, errors.ErrRender, "cannot convert image for kitty")
		}
		data = buf.Bytes()
	}

	control := "a=T,f=100"
	if opts.MaxWidth > 0 && cfg.Width > opts.MaxWidth {
		control += ",c=" + strconv.Itoa(opts.MaxWidth/opts.CellWidth)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	var out strings.Builder
	for first := true; first || encoded != ""; first = false {
		chunk := encoded
		if len(chunk) > kittyChunk {
			chunk = chunk[:kittyChunk]
		}
		encoded = encoded[len(chunk):]

		more := "0"
		if encoded != "" {
			more = "1"
		}
		out.WriteString("\x1b_G")
		if first {
			out.WriteString(control + ",")
		}
		out.WriteString("m=" + more + ";" + chunk + "\x1b\\")
	}

	sink.Insert(h, out.String())
	return nil
}

func (r *Image) emitITerm2(h frame.Header, data []byte, width int, sink Sink) error {
	args := []string{"inline=1", "size=" + strconv.Itoa(len(data)), "preserveAspectRatio=1"}
	if name := h.String("name"); name != "" {
		args = append(args, "name="+base64.StdEncoding.EncodeToString([]byte(name)))
	}
	if limit := r.options(h).MaxWidth; limit > 0 && (width == 0 || width > limit) {
		args = append(args, "width="+strconv.Itoa(limit)+"px")
	}

	seq := "\x1b]1337;File=" + strings.Join(args, ";") + ":" +
		base64.StdEncoding.EncodeToString(data) + "\a"
	sink.Insert(h, seq)
	return nil
}

func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
