package blake2b

import "github.com/pkg/errors"

// ErrUpdateAfterFinalize is returned by Update once a State has been
// finalized.
var ErrUpdateAfterFinalize = errors.New("blake2b: update called after finalize")

// State is a streaming BLAKE2b hash. The zero value is not usable;
// construct one with Params.ToState or New.
//
// State owns h, the byte counter, the one-block hold buffer, and the
// parameter block. It preserves the invariant that the last block is never
// compressed until Finalize is called: only update's arrival of further
// bytes proves an earlier full buffer was not the final block.
type State struct {
	h        [8]uint64
	t, th    uint64 // 128-bit byte counter, low/high
	buf      [BlockSize]byte
	buflen   int
	digestLn uint8
	lastNode bool
	keyed    bool

	finalized bool
	cached    Digest
}

// ToState builds a streaming State from p. It validates p and returns an
// error naming the out-of-range field rather than clamping.
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

// New returns a streaming State for plain, unkeyed BLAKE2b-512.
func New() *State {
	s, _ := DefaultParams().ToState()
	return s
}

func (s *State) addCounter(n uint64) {
	old := s.t
	s.t += n
	if s.t < old {
		s.th++
	}
}

// Update appends bytes to the hash. It never compresses the last block
// present in the buffer; only Finalize does.
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

// Count returns the total number of bytes absorbed so far, including
// buffered-but-uncompressed bytes and excluding an unabsorbed key block.
func (s *State) Count() uint64 {
	n := s.t + uint64(s.buflen)
	if s.keyed {
		n -= BlockSize
	}
	return n
}

// Finalized reports whether Finalize has been called.
func (s *State) Finalized() bool { return s.finalized }

// Buffered returns the number of held-back bytes in the hold buffer,
// awaiting either more input or finalization. A keyed, not-yet-updated
// State reports a full block: the key block counts as pending work.
func (s *State) Buffered() int { return s.buflen }

// Finalize terminates the stream and returns its digest. Finalize is
// infallible and idempotent: calling it again returns the same cached
// digest instead of erroring.
func (s *State) Finalize() *Digest {
	if s.finalized {
		return &s.cached
	}
	var block [BlockSize]byte
	copy(block[:], s.buf[:s.buflen])
	s.addCounter(uint64(s.buflen))
	compress(&s.h, &block, s.t, s.th, true, s.lastNode)

	var out [Size]byte
	for i, v := range s.h {
		out[i*8] = byte(v)
		out[i*8+1] = byte(v >> 8)
		out[i*8+2] = byte(v >> 16)
		out[i*8+3] = byte(v >> 24)
		out[i*8+4] = byte(v >> 32)
		out[i*8+5] = byte(v >> 40)
		out[i*8+6] = byte(v >> 48)
		out[i*8+7] = byte(v >> 56)
	}
	s.cached = Digest{bytes: out, size: s.digestLn}
	s.finalized = true
	return &s.cached
}

// clone returns a deep copy of s, used by the hash.Hash adapter's Sum so
// that Sum does not consume the original State.
func (s *State) clone() *State {
	c := *s
	return &c
}

// ForceDigestLength overrides the number of bytes Finalize extracts,
// without touching the digest_length byte already baked into the header
// at ToState time. BLAKE2bp's leaves need this: a leaf's header advertises
// the caller's requested hash length as associated data, but every leaf
// always emits a full inner-hash-length digest for the root to absorb.
func (s *State) ForceDigestLength(n uint8) { s.digestLn = n }

// ClearBuffer empties the hold buffer without touching h or the counter.
// BLAKE2bp's root node needs this: the key length is baked into the
// root's header as associated data, but the key bytes themselves are
// never actually absorbed by the root, only by the leaves.
func (s *State) ClearBuffer() {
	s.buf = [BlockSize]byte{}
	s.buflen = 0
	s.keyed = false
}
