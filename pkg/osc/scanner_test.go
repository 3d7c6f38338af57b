// Test Type: Unit Test
// Description: Tests for the OSC scanner that splits terminal output from OSC sequences

package osc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termime/pkg/osc"
)

type recorder struct {
	out   *bytes.Buffer
	calls []string
}

// HandleOSC records the payload and marks its position in the output
func (r *recorder) HandleOSC(id int, data []byte) {
	r.calls = append(r.calls, string(data))
	r.out.WriteString("<frame>")
}

func newScanner() (*osc.Scanner, *bytes.Buffer, *recorder) {
	var out bytes.Buffer
	rec := &recorder{out: &out}
	s := osc.NewScanner(&out)
	s.Handle(5151, rec)
	return s, &out, rec
}

func TestScanner_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOut   string
		wantCalls []string
	}{
		{
			name:    "plain_output_passes_through",
			input:   "hello\r\nworld",
			wantOut: "hello\r\nworld",
		},
		{
			name:      "st_terminated",
			input:     "before\x1b]5151;{\"type\":\"text/plain\"}\naGk=\x1b\\after",
			wantOut:   "before<frame>after",
			wantCalls: []string{"{\"type\":\"text/plain\"}\naGk="},
		},
		{
			name:      "bel_terminated",
			input:     "\x1b]5151;data\x07",
			wantOut:   "<frame>",
			wantCalls: []string{"data"},
		},
		{
			name:    "other_osc_passes_through",
			input:   "\x1b]0;window title\x07x\x1b]7;file://h/tmp\x1b\\",
			wantOut: "\x1b]0;window title\x07x\x1b]7;file://h/tmp\x1b\\",
		},
		{
			name:    "csi_passes_through",
			input:   "\x1b[1;31mred\x1b[0m",
			wantOut: "\x1b[1;31mred\x1b[0m",
		},
		{
			name:      "two_frames",
			input:     "\x1b]5151;a\x1b\\-\x1b]5151;b\x1b\\",
			wantOut:   "<frame>-<frame>",
			wantCalls: []string{"a", "b"},
		},
		{
			name:      "esc_without_backslash_ends_sequence",
			input:     "\x1b]5151;a\x1b[0m",
			wantOut:   "<frame>\x1b[0m",
			wantCalls: []string{"a"},
		},
		{
			name:      "utf8_continuation_byte_is_data",
			input:     "\x1b]5151;{\"title\":\"cœur\"}\x1b\\",
			wantOut:   "<frame>",
			wantCalls: []string{"{\"title\":\"cœur\"}"},
		},
		{
			name:    "non_numeric_identifier",
			input:   "\x1b]abc;x\x07",
			wantOut: "\x1b]abc;x\x07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, rec := newScanner()
			_, err := s.Write([]byte(tt.input))
			require.NoError(t, err)
			require.NoError(t, s.Flush())

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantCalls, rec.calls)
		})
	}
}

func TestScanner_SplitAcrossWrites(t *testing.T) {
	input := "ab\x1b]5151;{\"type\":\"text/plain\"}\naGk=\x1b\\cd"

	s, out, rec := newScanner()
	for i := 0; i < len(input); i++ {
		_, err := s.Write([]byte{input[i]})
		require.NoError(t, err)
	}
	require.NoError(t, s.Flush())

	assert.Equal(t, "ab<frame>cd", out.String())
	assert.Equal(t, []string{"{\"type\":\"text/plain\"}\naGk="}, rec.calls)
}

func TestScanner_FlushIncomplete(t *testing.T) {
	s, out, rec := newScanner()
	_, err := s.Write([]byte("x\x1b]5151;partial"))
	require.NoError(t, err)
	assert.Equal(t, "x", out.String())

	require.NoError(t, s.Flush())
	assert.Equal(t, "x\x1b]5151;partial", out.String())
	assert.Empty(t, rec.calls)
}

func TestScanner_MaxSequence(t *testing.T) {
	s, out, rec := newScanner()
	s.SetMaxSequence(8)

	_, err := s.Write([]byte("\x1b]5151;0123456789\x1b\\ok\x1b]5151;ab\x07"))
	require.NoError(t, err)

	assert.Equal(t, "ok<frame>", out.String())
	assert.Equal(t, []string{"ab"}, rec.calls)
}

func TestScanner_HandlerFunc(t *testing.T) {
	var out bytes.Buffer
	var got []int
	s := osc.NewScanner(&out)
	s.Handle(7, osc.HandlerFunc(func(id int, data []byte) {
		got = append(got, id)
	}))

	assert.True(t, s.Handled(7))
	assert.False(t, s.Handled(5151))

	_, err := s.Write([]byte("\x1b]7;file:///tmp\x07"))
	require.NoError(t, err)
	assert.Equal(t, []int{7}, got)
	assert.Empty(t, out.String())
}
