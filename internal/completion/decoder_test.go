package completion

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader yields one predefined chunk per Read call.
type chunkedReader struct {
	chunks [][]byte
	err    error
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	n := copy(p, c)
	return n, nil
}

func drain(t *testing.T, d *chunkDecoder) ([]string, error) {
	t.Helper()
	var out []string
	for {
		s, err := d.next()
		if s != "" {
			out = append(out, s)
		}
		if err != nil {
			return out, err
		}
	}
}

func TestChunkDecoder_AlignedChunks(t *testing.T) {
	d := newChunkDecoder(&chunkedReader{chunks: [][]byte{
		[]byte("hello "),
		[]byte("world"),
	}})

	chunks, err := drain(t, d)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"hello ", "world"}, chunks)
}

func TestChunkDecoder_RuneSplitAcrossChunks(t *testing.T) {
	// "héllo" with the two-byte é split between chunks.
	raw := []byte("héllo")
	d := newChunkDecoder(&chunkedReader{chunks: [][]byte{
		raw[:2], // "h" + first byte of é
		raw[2:],
	}})

	chunks, err := drain(t, d)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "héllo", joinChunks(chunks))
	// First chunk must hold back the partial rune.
	assert.Equal(t, "h", chunks[0])
}

func TestChunkDecoder_FourByteRuneSplitThreeWays(t *testing.T) {
	raw := []byte("a\U0001F600b") // emoji is 4 bytes
	d := newChunkDecoder(&chunkedReader{chunks: [][]byte{
		raw[:2],
		raw[2:4],
		raw[4:],
	}})

	chunks, err := drain(t, d)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "a\U0001F600b", joinChunks(chunks))
}

func TestChunkDecoder_TruncatedRuneAtEOF(t *testing.T) {
	raw := []byte("ok" + "é")
	d := newChunkDecoder(&chunkedReader{chunks: [][]byte{
		raw[:len(raw)-1], // stream ends mid-rune
	}})

	chunks, err := drain(t, d)
	require.ErrorIs(t, err, io.EOF)
	// Held-back byte is flushed at EOF rather than silently dropped.
	assert.Equal(t, string(raw[:len(raw)-1]), joinChunks(chunks))
}

func TestChunkDecoder_ReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	d := newChunkDecoder(&chunkedReader{
		chunks: [][]byte{[]byte("partial")},
		err:    readErr,
	})

	chunks, err := drain(t, d)
	require.ErrorIs(t, err, readErr)
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"empty", nil, 0},
		{"ascii", []byte("abc"), 3},
		{"complete multibyte", []byte("é"), 2},
		{"trailing partial two byte", []byte{'a', 0xC3}, 1},
		{"trailing partial four byte", []byte{'a', 0xF0, 0x9F, 0x98}, 1},
		{"lone continuation bytes", []byte{0x98, 0x80}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runeBoundary(tt.in))
		})
	}
}

func joinChunks(chunks []string) string {
	out := ""
	for _, c := range chunks {
		out += c
	}
	return out
}
