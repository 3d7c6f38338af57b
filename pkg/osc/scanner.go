// Package osc splits a terminal output stream into ordinary output and OSC
// sequences, and hands the sequences with a registered identifier to their
// handler.
package osc

import (
	"bytes"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/termime/pkg/logging"
)

const (
	esc = 0x1b
	bel = 0x07

	// DefaultMaxSequence bounds the size of a single OSC sequence
	DefaultMaxSequence = 64 << 20
)

// Handler receives the data of an OSC sequence, after the "<id>;" prefix
type Handler interface {
	HandleOSC(id int, data []byte)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(id int, data []byte)

// HandleOSC calls f(id, data)
func (f HandlerFunc) HandleOSC(id int, data []byte) { f(id, data) }

type state int

const (
	stateGround state = iota
	stateEscape
	stateOSC
	stateOSCEscape
	stateDiscard
	stateDiscardEscape
)

// Scanner is an io.Writer that passes ordinary output to out and dispatches
// OSC sequences by identifier. Sequences may be split across writes.
// Unregistered sequences are written to out unchanged.
//
// Only BEL and ESC \ terminate a sequence. The single byte ST (0x9c) is
// ignored because it is a valid UTF-8 continuation byte.
type Scanner struct {
	out      io.Writer
	handlers map[int]Handler
	maxSeq   int
	logger   zerolog.Logger

	state state
	seq   []byte
	plain bytes.Buffer
}

// NewScanner creates a scanner writing ordinary output to out
func NewScanner(out io.Writer) *Scanner {
	return &Scanner{
		out:      out,
		handlers: make(map[int]Handler),
		maxSeq:   DefaultMaxSequence,
		logger:   logging.GetLogger("osc.scanner"),
	}
}

// SetMaxSequence changes the size limit of a single sequence. Larger
// sequences are dropped.
func (s *Scanner) SetMaxSequence(n int) {
	if n > 0 {
		s.maxSeq = n
	}
}

// Handle registers h for sequences with identifier id, replacing any previous handler
func (s *Scanner) Handle(id int, h Handler) {
	s.handlers[id] = h
}

// Handled reports whether a handler is registered for id
func (s *Scanner) Handled(id int) bool {
	_, ok := s.handlers[id]
	return ok
}

// Write scans p. It only fails when the underlying writer fails.
func (s *Scanner) Write(p []byte) (int, error) {
	for _, b := range p {
		if err := s.processByte(b); err != nil {
			return 0, err
		}
	}
	if err := s.flushPlain(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush writes out any incomplete sequence as ordinary output. Call it when
// the stream ends.
func (s *Scanner) Flush() error {
	switch s.state {
	case stateEscape:
		s.plain.WriteByte(esc)
	case stateOSC:
		s.plain.Write([]byte{esc, ']'})
		s.plain.Write(s.seq)
	case stateOSCEscape:
		s.plain.Write([]byte{esc, ']'})
		s.plain.Write(s.seq)
		s.plain.WriteByte(esc)
	}
	s.state = stateGround
	s.seq = s.seq[:0]
	return s.flushPlain()
}

func (s *Scanner) processByte(b byte) error {
	switch s.state {
	case stateGround:
		if b == esc {
			s.state = stateEscape
			return nil
		}
		s.plain.WriteByte(b)

	case stateEscape:
		switch b {
		case ']':
			s.state = stateOSC
			s.seq = s.seq[:0]
		case esc:
			s.plain.WriteByte(esc)
		default:
			s.plain.WriteByte(esc)
			s.plain.WriteByte(b)
			s.state = stateGround
		}

	case stateOSC:
		switch b {
		case bel:
			s.state = stateGround
			return s.dispatch([]byte{bel})
		case esc:
			s.state = stateOSCEscape
		default:
			if len(s.seq) >= s.maxSeq {
				s.logger.Warn().Int("limit", s.maxSeq).Msg("OSC sequence too long, dropping it")
				s.seq = s.seq[:0]
				s.state = stateDiscard
				return nil
			}
			s.seq = append(s.seq, b)
		}

	case stateOSCEscape:
		if b == '\\' {
			s.state = stateGround
			return s.dispatch([]byte{esc, '\\'})
		}
		// ESC without backslash ends the sequence and starts a new escape
		if err := s.dispatch(nil); err != nil {
			return err
		}
		s.state = stateEscape
		return s.processByte(b)

	case stateDiscard:
		switch b {
		case bel:
			s.state = stateGround
		case esc:
			s.state = stateDiscardEscape
		}

	case stateDiscardEscape:
		if b == '\\' {
			s.state = stateGround
			return nil
		}
		s.state = stateEscape
		return s.processByte(b)
	}
	return nil
}

// dispatch hands the collected sequence to its handler, or passes it through
func (s *Scanner) dispatch(terminator []byte) error {
	seq := s.seq
	s.seq = s.seq[:0]

	id, data, ok := splitIdentifier(seq)
	if ok {
		if h, found := s.handlers[id]; found {
			// Output preceding the sequence must reach the terminal first
			if err := s.flushPlain(); err != nil {
				return err
			}
			payload := make([]byte, len(data))
			copy(payload, data)
			h.HandleOSC(id, payload)
			return nil
		}
	}

	s.plain.Write([]byte{esc, ']'})
	s.plain.Write(seq)
	s.plain.Write(terminator)
	return nil
}

func (s *Scanner) flushPlain() error {
	if s.plain.Len() == 0 {
		return nil
	}
	_, err := s.out.Write(s.plain.Bytes())
	s.plain.Reset()
	return err
}

// splitIdentifier parses "<id>;<data>". A bare "<id>" has empty data.
func splitIdentifier(seq []byte) (int, []byte, bool) {
	idPart, data, _ := bytes.Cut(seq, []byte{';'})
	if len(idPart) == 0 {
		return 0, nil, false
	}
	id, err := strconv.Atoi(string(idPart))
	if err != nil {
		return 0, nil, false
	}
	return id, data, true
}
