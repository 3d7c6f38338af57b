// Test Type: Unit Test
// Description: Tests for frame encoding, header parsing and payload materialization

package frame_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

// body strips introducer and terminator the way the OSC demultiplexer does
func body(t *testing.T, wire string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(wire, frame.Introducer), "missing introducer in %q", wire)
	require.True(t, strings.HasSuffix(wire, frame.Terminator), "missing terminator in %q", wire)
	return strings.TrimSuffix(strings.TrimPrefix(wire, frame.Introducer), frame.Terminator)
}

func TestEncoder_Inline(t *testing.T) {
	t.Run("plain_text_example", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, frame.NewEncoder(&buf).Inline("text/plain", []byte("hi"), nil))

		assert.Equal(t, "\x1b]5151;{\"type\":\"text/plain\"}\naGk=\x1b\\", buf.String())

		f, err := frame.Decode(body(t, buf.String()), frame.NewResolver(afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, "text/plain", f.Type)
		assert.Equal(t, frame.Header{"type": "text/plain"}, f.Header)
		assert.Equal(t, []byte("hi"), f.Payload)
	})

	t.Run("empty_type_rejected", func(t *testing.T) {
		var buf bytes.Buffer
		err := frame.NewEncoder(&buf).Inline("", []byte("x"), nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Zero(t, buf.Len())
	})
}

func TestRoundTrip_Inline(t *testing.T) {
	rng := rand.New(rand.NewSource(5151))
	types := []string{"text/plain", "image/png", "application/octet-stream", "text/x-latex", "application/vnd.foo+json"}

	for i := 0; i < 200; i++ {
		data := make([]byte, rng.Intn(4096))
		rng.Read(data)
		typ := types[i%len(types)]

		var buf bytes.Buffer
		require.NoError(t, frame.NewEncoder(&buf).Inline(typ, data, nil))

		f, err := frame.Decode(body(t, buf.String()), frame.NewResolver(afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, typ, f.Type)
		assert.Equal(t, len(data), len(f.Payload))
		assert.True(t, bytes.Equal(data, f.Payload), "payload mismatch at iteration %d", i)
	}
}

func TestBuildHeader(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		meta map[string]string
		want string
	}{
		{"type_only", "image/png", nil, `{"type":"image/png"}`},
		{"meta_sorted_after_type", "text/html", map[string]string{"title": "T", "alt": "a"}, `{"type":"text/html","alt":"a","title":"T"}`},
		{"meta_cannot_override_type", "text/plain", map[string]string{"type": "image/png"}, `{"type":"text/plain"}`},
		{"dotted_key_kept_literal", "text/plain", map[string]string{"x.y": "1"}, `{"type":"text/plain","x.y":"1"}`},
		{"pipe_key_kept_literal", "text/plain", map[string]string{"a|b": "v"}, `{"type":"text/plain","a|b":"v"}`},
		{"modifier_key_kept_literal", "text/plain", map[string]string{"@x": "v"}, `{"type":"text/plain","@x":"v"}`},
		{"hash_key_kept_literal", "text/plain", map[string]string{"#": "v"}, `{"type":"text/plain","#":"v"}`},
		{"bang_and_colon_keys", "text/plain", map[string]string{"!n": "1", ":k": "2"}, `{"type":"text/plain","!n":"1",":k":"2"}`},
		{"wildcard_and_escape_keys", "text/plain", map[string]string{"a*?": "1", `b\c`: "2"}, `{"type":"text/plain","a*?":"1","b\\c":"2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := frame.BuildHeader(tt.typ, tt.meta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHeader(t *testing.T) {
	t.Run("unknown_keys_tolerated", func(t *testing.T) {
		h, err := frame.ParseHeader(`{"type":"image/png","width":300,"extra":{"a":[1,2]}}`)
		require.NoError(t, err)
		assert.Equal(t, "image/png", h.Type())
		assert.Equal(t, float64(300), h["width"])
		assert.Contains(t, h, "extra")
	})

	invalid := map[string]string{
		"not_json":       `{"type": "text/plain"`,
		"not_an_object":  `["text/plain"]`,
		"missing_type":   `{"kind":"text/plain"}`,
		"non_string":     `{"type":42}`,
		"empty_type":     `{"type":""}`,
		"empty_line":     ``,
		"garbage_prefix": `xx{"type":"text/plain"}`,
	}
	for name, line := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := frame.ParseHeader(line)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrHeaderParse))
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	r := frame.NewResolver(afero.NewMemMapFs())

	t.Run("bad_header", func(t *testing.T) {
		_, err := frame.Decode("not json\naGk=", r)
		assert.True(t, errors.IsErrorCode(err, errors.ErrHeaderParse))
	})

	t.Run("bad_base64", func(t *testing.T) {
		_, err := frame.Decode("{\"type\":\"text/plain\"}\n!!!not-base64!!!", r)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadDecode))
	})

	t.Run("missing_reference", func(t *testing.T) {
		_, err := frame.Decode("{\"type\":\"text/plain\"}\nfile://box/nope.txt", r)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadDecode))
	})

	t.Run("no_newline_means_empty_payload", func(t *testing.T) {
		f, err := frame.Decode(`{"type":"text/plain"}`, r)
		require.NoError(t, err)
		assert.Empty(t, f.Payload)
	})

	t.Run("wrapped_base64", func(t *testing.T) {
		f, err := frame.Decode("{\"type\":\"text/plain\"}\naGVs\nbG8=\n", r)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), f.Payload)
	})
}

func TestResolver_References(t *testing.T) {
	t.Run("file_reference_reads_content_at_decode_time", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/tmp/plot.svg", []byte("<svg/>"), 0644))

		var buf bytes.Buffer
		require.NoError(t, frame.NewEncoder(&buf).Reference("image/svg+xml", frame.FileURI("box", "/tmp/plot.svg"), nil))

		// The file changes between emit and decode
		require.NoError(t, afero.WriteFile(fs, "/tmp/plot.svg", []byte("<svg>v2</svg>"), 0644))

		f, err := frame.Decode(body(t, buf.String()), frame.NewResolver(fs))
		require.NoError(t, err)
		assert.Equal(t, []byte("<svg>v2</svg>"), f.Payload)

		exists, err := afero.Exists(fs, "/tmp/plot.svg")
		require.NoError(t, err)
		assert.True(t, exists, "file: references must not be deleted")
	})

	t.Run("tmpfile_reference_is_deleted_after_read", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		content := bytes.Repeat([]byte{0x00, 0xff, 0x10}, 3000)
		require.NoError(t, afero.WriteFile(fs, "/tmp/tmpXYZ", content, 0600))

		f, err := frame.Decode("{\"type\":\"image/png\"}\n"+frame.TmpfileURI("", "/tmp/tmpXYZ"), frame.NewResolver(fs))
		require.NoError(t, err)
		assert.Equal(t, content, f.Payload)

		exists, err := afero.Exists(fs, "/tmp/tmpXYZ")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("percent_encoded_path", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/tmp/my plot.png", []byte("png"), 0644))

		f, err := frame.Decode("{\"type\":\"image/png\"}\nfile:///tmp/my%20plot.png", frame.NewResolver(fs))
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), f.Payload)
	})
}

func TestResolver_ReferenceRoundTripsAwkwardNames(t *testing.T) {
	names := []string{"100%25done.txt", "a%41b.txt", "my plot.txt", "q?#&.txt", "plain.txt"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			path := "/data/" + name
			require.NoError(t, afero.WriteFile(fs, path, []byte(name), 0644))

			var buf bytes.Buffer
			require.NoError(t, frame.NewEncoder(&buf).Reference("text/plain", frame.FileURI("box", path), nil))

			f, err := frame.Decode(body(t, buf.String()), frame.NewResolver(fs))
			require.NoError(t, err)
			assert.Equal(t, []byte(name), f.Payload)
		})
	}
}

func TestResolver_LocalPath(t *testing.T) {
	tests := []struct {
		name       string
		resolver   frame.Resolver
		uri        string
		wantScheme string
		wantPath   string
	}{
		{"file_with_host", frame.Resolver{}, "file://box/tmp/a.png", "file", "/tmp/a.png"},
		{"file_without_host", frame.Resolver{}, "file:///tmp/a.png", "file", "/tmp/a.png"},
		{"file_bare_path", frame.Resolver{}, "file:/tmp/a.png", "file", "/tmp/a.png"},
		{"tmpfile", frame.Resolver{}, "tmpfile:///tmp/tmp1", "tmpfile", "/tmp/tmp1"},
		{"remote_prefix", frame.Resolver{RemotePrefix: "/mnt/box"}, "file://box/home/u/a.png", "file", "/mnt/box/home/u/a.png"},
		{"windows_drive", frame.Resolver{Windows: true}, "file:///C:/Users/u/a.png", "file", `C:\Users\u\a.png`},
		{"windows_flag_ignores_unix_paths", frame.Resolver{Windows: true}, "file:///tmp/a.png", "file", "/tmp/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheme, path, err := tt.resolver.LocalPath(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, scheme)
			assert.Equal(t, tt.wantPath, path)
		})
	}

	t.Run("rejects_other_schemes", func(t *testing.T) {
		r := frame.Resolver{}
		_, _, err := r.LocalPath("http://example.com/a.png")
		assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadDecode))
	})

	t.Run("rejects_missing_path", func(t *testing.T) {
		r := frame.Resolver{}
		_, _, err := r.LocalPath("file://box")
		assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadDecode))
	})
}

func TestURIBuilders(t *testing.T) {
	assert.Equal(t, "file://box/tmp/plot.svg", frame.FileURI("box", "/tmp/plot.svg"))
	assert.Equal(t, "file://box/C:/x/y.png", frame.FileURI("box", `C:\x\y.png`))
	assert.Equal(t, "tmpfile:///tmp/t", frame.TmpfileURI("", "/tmp/t"))
	assert.Equal(t, "file://box/tmp/100%2525done.txt", frame.FileURI("box", "/tmp/100%25done.txt"))
	assert.Equal(t, "file://box/tmp/my%20plot%23.png", frame.FileURI("box", "/tmp/my plot#.png"))
	assert.True(t, frame.IsReference("tmpfile:///tmp/t"))
	assert.True(t, frame.IsReference("file://h/x"))
	assert.False(t, frame.IsReference("aGk="))
}

func TestEncoder_ReferenceRejectsNonURI(t *testing.T) {
	var buf bytes.Buffer
	err := frame.NewEncoder(&buf).Reference("image/png", "/tmp/a.png", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Zero(t, buf.Len())
}
