package frame

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/logging"
)

// Reference URI schemes
const (
	SchemeFile    = "file"
	SchemeTmpfile = "tmpfile"
)

var (
	referencePattern = regexp.MustCompile(`^(tmp)?file:`)
	windowsDrive     = regexp.MustCompile(`^/[A-Za-z]:/`)
)

// Resolver turns a payload region into raw bytes
type Resolver struct {
	// Fs is where reference payloads are read from. Defaults to the OS filesystem.
	Fs afero.Fs

	// RemotePrefix is prepended to reference paths when the session runs on
	// another machine whose filesystem is reachable under that prefix.
	RemotePrefix string

	// Windows maps /C:/dir/file reference paths to C:\dir\file
	Windows bool

	logger zerolog.Logger
}

// NewResolver creates a resolver reading from fs
func NewResolver(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{
		Fs:      fs,
		Windows: runtime.GOOS == "windows",
		logger:  logging.GetLogger("frame.payload"),
	}
}

// IsReference reports whether a payload region carries a file: or tmpfile: URI
func IsReference(region string) bool {
	return referencePattern.MatchString(strings.TrimSpace(region))
}

// Materialize decodes a payload region to raw bytes
func (r *Resolver) Materialize(region string) ([]byte, error) {
	if r == nil {
		r = NewResolver(nil)
	}
	region = strings.TrimSpace(region)

	if IsReference(region) {
		return r.readReference(region)
	}

	// The decoder skips \r and \n, so wrapped Base64 is accepted as well
	data, err := base64.StdEncoding.DecodeString(region)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPayloadDecode, "payload is not valid base64")
	}
	return data, nil
}

func (r *Resolver) readReference(uri string) ([]byte, error) {
	scheme, path, err := r.LocalPath(uri)
	if err != nil {
		return nil, err
	}

	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPayloadDecode, "cannot read referenced file %s", path).
			WithDetail("uri", uri)
	}

	// Deletion happens only once the whole file is in memory
	if scheme == SchemeTmpfile {
		if err := fs.Remove(path); err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove tmpfile reference")
		}
	}

	return data, nil
}

// LocalPath maps a reference URI to the scheme and the host path it names
func (r *Resolver) LocalPath(uri string) (scheme, path string, err error) {
	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok || (scheme != SchemeFile && scheme != SchemeTmpfile) {
		return "", "", errors.Newf(errors.ErrPayloadDecode, "unsupported reference %q", uri)
	}

	// Drop the authority; the host name only documents where the file was written
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return "", "", errors.Newf(errors.ErrPayloadDecode, "reference %q has no path", uri)
		}
		rest = rest[slash:]
	}
	if rest == "" {
		return "", "", errors.Newf(errors.ErrPayloadDecode, "reference %q has no path", uri)
	}

	// Percent-encoded URIs come from URI builders; plain paths from the shell
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}

	if r.Windows && windowsDrive.MatchString(rest) {
		rest = strings.ReplaceAll(rest[1:], "/", `\`)
	}

	return scheme, r.RemotePrefix + rest, nil
}

// FileURI builds the file: reference for an absolute path written on host
func FileURI(host, absPath string) string {
	return SchemeFile + "://" + host + uriPath(absPath)
}

// TmpfileURI builds a tmpfile: reference. The host deletes the file after reading it.
func TmpfileURI(host, absPath string) string {
	return SchemeTmpfile + "://" + host + uriPath(absPath)
}

// uriPath percent-encodes p so LocalPath maps it back to the same name
func uriPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Path: p}).EscapedPath()
}
