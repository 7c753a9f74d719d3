// Package sp implements BLAKE2sp, BLAKE2s's fixed eight-leaf tree-hashing
// variant. See bp for the parallel BLAKE2b construction: the composition
// is identical, just with eight leaves and 32-bit words.
package sp

import (
	"github.com/blake2x/blake2x/blake2s"
	"github.com/blake2x/blake2x/blake2s/many"
)

const (
	fanout = 8
	depth  = 2
)

// Params configures BLAKE2sp. Only the digest length and key are
// caller-configurable; the tree shape itself is fixed.
type Params struct {
	DigestLength uint8
	Key          []byte
}

// DefaultParams returns Params for plain BLAKE2sp-256 with no key.
func DefaultParams() *Params {
	return &Params{DigestLength: blake2s.Size}
}

func (p *Params) digestLength() uint8 {
	if p.DigestLength == 0 {
		return blake2s.Size
	}
	return p.DigestLength
}

// State is a streaming BLAKE2sp hash: eight leaf States and one root
// State.
type State struct {
	leaves [fanout]*blake2s.State
	root   *blake2s.State
	buf    []byte
}

// ToState builds a streaming BLAKE2sp State from p.
func (p *Params) ToState() (*State, error) {
	s := &State{}
	base := &blake2s.Params{
		DigestLength:    p.digestLength(),
		Key:             p.Key,
		Fanout:          fanout,
		Depth:           depth,
		InnerHashLength: blake2s.Size,
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
		leafState.ForceDigestLength(blake2s.Size)
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
	rootState.ClearBuffer()
	s.root = rootState
	return s, nil
}

// New returns a streaming State for plain BLAKE2sp-256 with no key.
func New() *State {
	s, _ := DefaultParams().ToState()
	return s
}

// Update appends bytes to the hash; BLAKE2sp distributes input to its
// eight leaves round-robin by block, at Finalize time.
func (s *State) Update(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

// Finalize distributes the buffered input to the eight leaves round-robin
// by BlockSize-sized chunks, advances all leaves in lockstep through the
// multi-state engine, finalizes each leaf, absorbs their digests into the
// root in leaf order, and finalizes the root.
func (s *State) Finalize() *blake2s.Digest {
	var leafInputs [fanout][]byte
	buf := s.buf
	leaf := 0
	for len(buf) > 0 {
		n := blake2s.BlockSize
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

// Hash computes the one-shot BLAKE2sp digest of data under p.
func (p *Params) Hash(data []byte) (*blake2s.Digest, error) {
	s, err := p.ToState()
	if err != nil {
		return nil, err
	}
	if err := s.Update(data); err != nil {
		return nil, err
	}
	return s.Finalize(), nil
}

// Sum256 returns the default BLAKE2sp-256 digest of data with no key.
func Sum256(data []byte) *blake2s.Digest {
	d, _ := DefaultParams().Hash(data)
	return d
}
