package blake2s

import "github.com/pkg/errors"

// ErrUpdateAfterFinalize is returned by Update once a State has been
// finalized.
var ErrUpdateAfterFinalize = errors.New("blake2s: update called after finalize")

// State is a streaming BLAKE2s hash. See blake2b.State for the full
// invariant discussion; BLAKE2s differs only in word width and counter
// width (64-bit total, as two uint32 halves).
type State struct {
	h        [8]uint32
	t, th    uint32
	buf      [BlockSize]byte
	buflen   int
	digestLn uint8
	lastNode bool
	keyed    bool

	finalized bool
	cached    Digest
}

// ToState builds a streaming State from p.
func (p *Params) ToState() (*State, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	s := &State{
		digestLn: p.digestLength(),
		lastNode: p.LastNode,
	}
	words := p.headerWords()
	for i := range s.h {
		s.h[i] = iv[i] ^ words[i]
	}
	if len(p.Key) > 0 {
		copy(s.buf[:], p.Key)
		s.buflen = BlockSize
		s.keyed = true
	}
	return s, nil
}

// New returns a streaming State for plain, unkeyed BLAKE2s-256.
func New() *State {
	s, _ := DefaultParams().ToState()
	return s
}

func (s *State) addCounter(n uint32) {
	old := s.t
	s.t += n
	if s.t < old {
		s.th++
	}
}

// Update appends bytes to the hash, holding the last block back from
// compression until proven non-final by a later write.
func (s *State) Update(p []byte) error {
	if s.finalized {
		return ErrUpdateAfterFinalize
	}
	if len(p) == 0 {
		return nil
	}

	if s.buflen > 0 {
		remaining := BlockSize - s.buflen
		if len(p) <= remaining {
			s.buflen += copy(s.buf[s.buflen:], p)
			return nil
		}
		copy(s.buf[s.buflen:], p[:remaining])
		s.addCounter(BlockSize)
		compress(&s.h, &s.buf, s.t, s.th, false, false)
		s.buflen = 0
		p = p[remaining:]
	}

	for len(p) > BlockSize {
		var block [BlockSize]byte
		copy(block[:], p[:BlockSize])
		s.addCounter(BlockSize)
		compress(&s.h, &block, s.t, s.th, false, false)
		p = p[BlockSize:]
	}

	s.buflen = copy(s.buf[:], p)
	return nil
}

// Count returns the total number of bytes absorbed so far, excluding an
// unabsorbed key block.
func (s *State) Count() uint64 {
	n := uint64(s.t) + uint64(s.buflen)
	if s.keyed {
		n -= BlockSize
	}
	return n
}

// Finalized reports whether Finalize has been called.
func (s *State) Finalized() bool { return s.finalized }

// Buffered returns the number of held-back bytes in the hold buffer,
// awaiting either more input or finalization; see blake2b.State.Buffered.
func (s *State) Buffered() int { return s.buflen }

// Finalize terminates the stream and returns its digest. Idempotent: a
// second call returns the cached digest.
func (s *State) Finalize() *Digest {
	if s.finalized {
		return &s.cached
	}
	var block [BlockSize]byte
	copy(block[:], s.buf[:s.buflen])
	s.addCounter(uint32(s.buflen))
	compress(&s.h, &block, s.t, s.th, true, s.lastNode)

	var out [Size]byte
	for i, v := range s.h {
		out[i*4] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	s.cached = Digest{bytes: out, size: s.digestLn}
	s.finalized = true
	return &s.cached
}

func (s *State) clone() *State {
	c := *s
	return &c
}

func (s *State) digestLen() int { return int(s.digestLn) }

// ForceDigestLength overrides the number of bytes Finalize extracts; see
// blake2b.State.ForceDigestLength.
func (s *State) ForceDigestLength(n uint8) { s.digestLn = n }

// ClearBuffer empties the hold buffer without touching h or the counter;
// see blake2b.State.ClearBuffer.
func (s *State) ClearBuffer() {
	s.buf = [BlockSize]byte{}
	s.buflen = 0
	s.keyed = false
}
