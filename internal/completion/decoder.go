package completion

import (
	"io"
	"unicode/utf8"
)

// chunkDecoder assembles text incrementally from a byte stream whose chunk
// boundaries do not align with UTF-8 rune boundaries. Trailing bytes of an
// incomplete rune are held back until the next read completes them.
type chunkDecoder struct {
	r       io.Reader
	pending []byte
	buf     [4096]byte
}

func newChunkDecoder(r io.Reader) *chunkDecoder {
	return &chunkDecoder{r: r}
}

// next returns the next decodable text chunk. On io.EOF any held-back bytes
// are flushed as-is (an invalid trailing sequence at end of stream is the
// producer's problem, not ours to hide).
func (d *chunkDecoder) next() (string, error) {
	for {
		n, err := d.r.Read(d.buf[:])
		if n > 0 {
			d.pending = append(d.pending, d.buf[:n]...)
			if err != nil {
				// Stream is over; nothing further can complete a partial rune.
				out := string(d.pending)
				d.pending = nil
				return out, err
			}
			cut := runeBoundary(d.pending)
			out := string(d.pending[:cut])
			rest := make([]byte, len(d.pending)-cut)
			copy(rest, d.pending[cut:])
			d.pending = rest
			if out != "" {
				return out, nil
			}
			continue
		}
		if err != nil {
			if err == io.EOF && len(d.pending) > 0 {
				out := string(d.pending)
				d.pending = nil
				return out, io.EOF
			}
			return "", err
		}
	}
}

// runeBoundary returns the length of the longest prefix of p that ends on a
// complete UTF-8 rune. At most utf8.UTFMax-1 bytes are ever held back.
func runeBoundary(p []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(p); i++ {
		b := p[len(p)-i]
		if utf8.RuneStart(b) {
			if utf8.FullRune(p[len(p)-i:]) {
				return len(p)
			}
			return len(p) - i
		}
	}
	// No rune start within reach: the tail is not a truncated rune, emit it.
	return len(p)
}
