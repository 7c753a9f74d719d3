// Package bp implements BLAKE2bp, BLAKE2b's fixed four-leaf tree-hashing
// variant. BLAKE2bp gives a different digest than BLAKE2b for the same
// input; it trades that incompatibility for throughput on machines wide
// enough to advance all four leaves at once.
package bp

import (
	"github.com/blake2x/blake2x/blake2b"
	"github.com/blake2x/blake2x/blake2b/many"
)

const (
	fanout = 4
	depth  = 2
)

// Params configures BLAKE2bp. Unlike plain BLAKE2b, BLAKE2bp's tree shape
// is fixed: only the digest length and key are caller-configurable;
// fanout, depth, leaf_length and inner_hash_length are pinned.
type Params struct {
	DigestLength uint8
	Key          []byte
}

// DefaultParams returns Params for plain BLAKE2bp-512 with no key.
func DefaultParams() *Params {
	return &Params{DigestLength: blake2b.Size}
}

func (p *Params) digestLength() uint8 {
	if p.DigestLength == 0 {
		return blake2b.Size
	}
	return p.DigestLength
}

// State is a streaming BLAKE2bp hash: four leaf States and one root State.
type State struct {
	leaves [fanout]*blake2b.State
	root   *blake2b.State
	buf    []byte
}

// ToState builds a streaming BLAKE2bp State from p.
func (p *Params) ToState() (*State, error) {
	s := &State{}
	base := &blake2b.Params{
		DigestLength:    p.digestLength(),
		Key:             p.Key,
		Fanout:          fanout,
		Depth:           depth,
		InnerHashLength: blake2b.Size,
	}
	for i := 0; i < fanout; i++ {
		leafParams := *base
		leafParams.NodeOffset = uint64(i)
		leafParams.NodeDepth = 0
		leafParams.LastNode = i == fanout-1
		leafState, err := leafParams.ToState()
		if err != nil {
			return nil, err
		}
		// Every leaf always emits a full inner-hash-length digest for the
		// root to absorb, regardless of the caller's requested length.
		leafState.ForceDigestLength(blake2b.Size)
		s.leaves[i] = leafState
	}

	rootParams := *base
	rootParams.NodeOffset = 0
	rootParams.NodeDepth = 1
	rootParams.LastNode = true
	rootState, err := rootParams.ToState()
	if err != nil {
		return nil, err
	}
	// The key length still contributes associated data to the root's
	// header, but the key bytes themselves are only absorbed by the
	// leaves.
	rootState.ClearBuffer()
	s.root = rootState
	return s, nil
}

// New returns a streaming State for plain BLAKE2bp-512 with no key.
func New() *State {
	s, _ := DefaultParams().ToState()
	return s
}

// Update appends bytes to the hash. BLAKE2bp buffers its input and
// distributes it to the four leaves round-robin by block, once the full
// input is known, at Finalize time.
func (s *State) Update(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

// Finalize distributes the buffered input to the four leaves round-robin
// by BlockSize-sized chunks, advances all leaves in lockstep through the
// multi-state engine, finalizes each leaf independently, absorbs their
// digests into the root in leaf order, and finalizes the root.
func (s *State) Finalize() *blake2b.Digest {
	var leafInputs [fanout][]byte
	buf := s.buf
	leaf := 0
	for len(buf) > 0 {
		n := blake2b.BlockSize
		if n > len(buf) {
			n = len(buf)
		}
		leafInputs[leaf] = append(leafInputs[leaf], buf[:n]...)
		buf = buf[n:]
		leaf = (leaf + 1) % fanout
	}

	jobs := make([]*many.StateJob, fanout)
	for i := 0; i < fanout; i++ {
		jobs[i] = &many.StateJob{State: s.leaves[i], Input: leafInputs[i]}
	}
	// UpdateMany only fails on a finalized state; the leaves are live.
	_ = many.UpdateMany(jobs)

	var rootInput []byte
	for i := 0; i < fanout; i++ {
		d := s.leaves[i].Finalize()
		rootInput = append(rootInput, d.Bytes()...)
	}
	_ = s.root.Update(rootInput)
	return s.root.Finalize()
}

// Hash computes the one-shot BLAKE2bp digest of data under p.
func (p *Params) Hash(data []byte) (*blake2b.Digest, error) {
	s, err := p.ToState()
	if err != nil {
		return nil, err
	}
	if err := s.Update(data); err != nil {
		return nil, err
	}
	return s.Finalize(), nil
}

// Sum512 returns the default BLAKE2bp-512 digest of data with no key.
func Sum512(data []byte) *blake2b.Digest {
	d, _ := DefaultParams().Hash(data)
	return d
}
