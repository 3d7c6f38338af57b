// Package emitter produces exactly one termime frame for the mimecat helper:
// stdin payloads are sent inline, files are sent by reference.
package emitter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
	"github.com/arthur-debert/termime/pkg/logging"
)

// Request describes what to emit
type Request struct {
	// Type is the MIME type. Required for stdin, sniffed for files when empty.
	Type string

	// Path names a file to reference. Empty means read stdin.
	Path string

	// Meta holds extra header keys. A "type" key is ignored.
	Meta map[string]string
}

// Emitter writes frames for requests
type Emitter struct {
	Stdin  io.Reader
	Stdout io.Writer

	// Host is written into file: references
	Host string

	// Detect sniffs the type of a file; defaults to content detection
	Detect func(path string) (string, error)

	logger zerolog.Logger
}

// New creates an emitter for the current process
func New(stdin io.Reader, stdout io.Writer) *Emitter {
	host, err := os.Hostname()
	if err != nil {
		host = ""
	}
	return &Emitter{
		Stdin:  stdin,
		Stdout: stdout,
		Host:   host,
		Detect: DetectType,
		logger: logging.GetLogger("emitter"),
	}
}

// Emit writes one frame for req. Nothing is written when it fails.
func (e *Emitter) Emit(req Request) error {
	enc := frame.NewEncoder(e.Stdout)

	if req.Path == "" {
		if req.Type == "" {
			return errors.New(errors.ErrUsage, "a type must be supplied when reading from standard input")
		}
		data, err := io.ReadAll(e.Stdin)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileResolution, "cannot read standard input")
		}
		e.logger.Debug().Str("type", req.Type).Int("bytes", len(data)).Msg("Emitting inline frame")
		return enc.Inline(req.Type, data, req.Meta)
	}

	path, err := Resolve(req.Path)
	if err != nil {
		return err
	}

	typ := req.Type
	if typ == "" {
		detect := e.Detect
		if detect == nil {
			detect = DetectType
		}
		if typ, err = detect(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileResolution, "cannot detect type of %s", path)
		}
	}

	uri := frame.FileURI(e.Host, filepath.ToSlash(path))
	e.logger.Debug().Str("type", typ).Str("uri", uri).Msg("Emitting reference frame")
	return enc.Reference(typ, uri, req.Meta)
}

// Resolve makes path absolute and follows symlinks
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileResolution, "cannot resolve %s", path).
			WithDetail("path", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileResolution, "cannot resolve %s", path).
			WithDetail("path", path)
	}
	return resolved, nil
}

// DetectType sniffs a file's MIME type from its content, without parameters
func DetectType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	typ, _, _ := strings.Cut(mt.String(), ";")
	return strings.TrimSpace(typ), nil
}

// ParseMeta turns key=value pairs into header metadata
func ParseMeta(pairs []string) (map[string]string, error) {
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errors.Newf(errors.ErrUsage, "metadata must look like key=value, got %q", p)
		}
		meta[k] = v
	}
	return meta, nil
}
