// Package decoder turns termime frames found in a terminal stream into
// renditions. It is registered on the OSC scanner for identifier 5151.
//
// Every frame is handled in isolation: a malformed header, an undecodable
// payload or a failing (even panicking) renderer drops that frame only, is
// logged, and leaves the decoder ready for the next one.
package decoder

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/logging"
	"github.com/arthur-debert/termime/pkg/render"
	"github.com/arthur-debert/termime/pkg/rules"
)

// Stats counts what the decoder did with the frames it received. Fallbacks
// counts rendered frames whose renderer failed and the catch-all took over.
type Stats struct {
	Frames    int
	Rendered  int
	Dropped   int
	Fallbacks int
}

// Decoder decodes frame bodies and dispatches them to renderers
type Decoder struct {
	mu       sync.Mutex
	table    *rules.Table[render.Renderer]
	resolver *frame.Resolver
	sink     render.Sink
	stats    Stats
	lastErr  error
	logger   zerolog.Logger
}

// New creates a decoder resolving renderers from table and writing to sink.
// A nil resolver reads references from the OS filesystem.
func New(table *rules.Table[render.Renderer], resolver *frame.Resolver, sink render.Sink) *Decoder {
	if resolver == nil {
		resolver = frame.NewResolver(nil)
	}
	return &Decoder{
		table:    table,
		resolver: resolver,
		sink:     sink,
		logger:   logging.GetLogger("decoder"),
	}
}

// SetTable swaps the renderer table. Frames decoded afterwards use the new one.
func (d *Decoder) SetTable(table *rules.Table[render.Renderer]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table = table
}

// Table returns the renderer table in use
func (d *Decoder) Table() *rules.Table[render.Renderer] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.table
}

// SetResolver swaps how payloads are materialized
func (d *Decoder) SetResolver(r *frame.Resolver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resolver = r
}

// HandleOSC receives frame bodies from the OSC scanner. Errors are logged and
// the frame dropped.
func (d *Decoder) HandleOSC(id int, data []byte) {
	if id != frame.OSCIdentifier {
		return
	}
	if _, err := d.Decode(string(data)); err != nil {
		d.logger.Warn().
			Err(err).
			Str("code", string(errors.GetErrorCode(err))).
			Msg("Dropped frame")
	}
}

// Decode decodes one frame body, renders it and returns the decoded frame
func (d *Decoder) Decode(body string) (*frame.Frame, error) {
	d.mu.Lock()
	table, resolver, sink := d.table, d.resolver, d.sink
	d.stats.Frames++
	d.mu.Unlock()

	f, fellBack, err := d.decode(body, table, resolver, sink)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = err
	if err != nil {
		d.stats.Dropped++
	} else {
		d.stats.Rendered++
	}
	if fellBack {
		d.stats.Fallbacks++
	}
	return f, err
}

// decode reports whether the catch-all had to stand in for a failed renderer
func (d *Decoder) decode(body string, table *rules.Table[render.Renderer], resolver *frame.Resolver, sink render.Sink) (*frame.Frame, bool, error) {
	f, err := frame.Decode(body, resolver)
	if err != nil {
		return nil, false, err
	}

	if table == nil {
		table = render.DefaultTable(nil)
	}
	entry := table.Resolve(f.Type)

	d.logger.Debug().
		Str("type", f.Type).
		Str("renderer", entry.Rule.Renderer).
		Int("bytes", len(f.Payload)).
		Msg("Rendering frame")

	err = invoke(entry.Capability, f, sink)
	if err == nil {
		return f, false, nil
	}
	renderErr := errors.Wrapf(err, errors.ErrRender, "renderer %q failed", entry.Rule.Renderer).
		WithDetail("type", f.Type)

	fallback := table.Fallback()
	if fallback.Rule.Renderer == entry.Rule.Renderer {
		return f, false, renderErr
	}

	d.logger.Warn().
		Err(renderErr).
		Str("type", f.Type).
		Str("fallback", fallback.Rule.Renderer).
		Msg("Renderer failed, showing frame with the catch-all")

	if err := invoke(fallback.Capability, f, sink); err != nil {
		return f, true, errors.Wrapf(err, errors.ErrRender, "catch-all %q failed after %v", fallback.Rule.Renderer, renderErr).
			WithDetail("type", f.Type)
	}
	return f, true, nil
}

// invoke runs a renderer, turning a panic into an error
func invoke(r render.Renderer, f *frame.Frame, sink render.Sink) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf(errors.ErrRender, "renderer panicked: %v", p)
		}
	}()
	if r == nil {
		return errors.New(errors.ErrRender, "no renderer")
	}
	return r.Render(f.Header, f.Payload, sink)
}

// Stats returns the frame counters
func (d *Decoder) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Err returns the outcome of the most recent frame
func (d *Decoder) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// String implements fmt.Stringer
func (s Stats) String() string {
	return fmt.Sprintf("%d frames, %d rendered, %d dropped", s.Frames, s.Rendered, s.Dropped)
}
