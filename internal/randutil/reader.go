package randutil

import (
	"encoding/binary"
	rand "math/rand/v2"
)

// Reader adapts a *rand.Rand to io.Reader so seeded generators can feed
// byte-oriented consumers such as uuid.NewRandomFromReader.
type Reader struct {
	rng *rand.Rand
	buf [8]byte
	n   int
}

// NewReader wraps rng.
func NewReader(rng *rand.Rand) *Reader {
	return &Reader{rng: rng}
}

// Read fills p from the wrapped generator. It never fails.
func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		if r.n == 0 {
			binary.LittleEndian.PutUint64(r.buf[:], r.rng.Uint64())
			r.n = len(r.buf)
		}
		p[i] = r.buf[len(r.buf)-r.n]
		r.n--
	}
	return len(p), nil
}
