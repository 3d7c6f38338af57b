package render

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/logging"
)

// Region is a span of output inserted by a renderer, tagged with the header
// of the frame that produced it. Offsets are byte positions in the output.
type Region struct {
	ID     xid.ID
	Header frame.Header
	Start  int64
	End    int64
}

// Contains reports whether offset off falls inside the region
func (r Region) Contains(off int64) bool {
	return off >= r.Start && off < r.End
}

// Sink receives rendered output
type Sink interface {
	// Insert writes content and records it as a region tagged with h
	Insert(h frame.Header, content string) Region

	// Raw writes bytes that belong to no region
	Raw(b []byte)
}

// DefaultRegionLimit bounds how many regions a TerminalSink remembers
const DefaultRegionLimit = 1024

// TerminalSink writes to a terminal stream and indexes inserted regions. It
// is also an io.Writer, so it can receive the pass-through side of the OSC
// scanner and keep offsets exact.
type TerminalSink struct {
	mu      sync.Mutex
	w       io.Writer
	offset  int64
	regions []Region
	limit   int
	logger  zerolog.Logger
}

// NewTerminalSink creates a sink writing to w
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{
		w:      w,
		limit:  DefaultRegionLimit,
		logger: logging.GetLogger("render.sink"),
	}
}

// SetRegionLimit changes how many regions are kept; older ones are dropped first
func (s *TerminalSink) SetRegionLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		n = DefaultRegionLimit
	}
	s.limit = n
	s.trimLocked()
}

// Write passes terminal output through
func (s *TerminalSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.w.Write(p)
	s.offset += int64(n)
	return n, err
}

// Raw implements Sink
func (s *TerminalSink) Raw(b []byte) {
	if _, err := s.Write(b); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write raw output")
	}
}

// Insert implements Sink. Content is terminated with a newline so following
// output starts on its own line.
func (s *TerminalSink) Insert(h frame.Header, content string) Region {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	region := Region{ID: xid.New(), Header: h, Start: s.offset}
	n, err := io.WriteString(s.w, content)
	s.offset += int64(n)
	region.End = s.offset
	if err != nil {
		s.logger.Error().Err(err).Str("type", h.Type()).Msg("Failed to write rendition")
	}

	s.regions = append(s.regions, region)
	s.trimLocked()
	return region
}

func (s *TerminalSink) trimLocked() {
	if over := len(s.regions) - s.limit; over > 0 {
		s.regions = append([]Region(nil), s.regions[over:]...)
	}
}

// Offset returns the number of bytes written so far
func (s *TerminalSink) Offset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Regions returns the remembered regions, oldest first
func (s *TerminalSink) Regions() []Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Region(nil), s.regions...)
}

// RegionAt returns the region covering offset off
func (s *TerminalSink) RegionAt(off int64) (Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.regions), func(i int) bool { return s.regions[i].End > off })
	if i < len(s.regions) && s.regions[i].Contains(off) {
		return s.regions[i], true
	}
	return Region{}, false
}
