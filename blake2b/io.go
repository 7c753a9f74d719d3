package blake2b

import "hash"

// Write implements io.Writer over Update. Update consumes the full slice,
// so Write returns len(p) and no error, except after Finalize, where it
// returns 0 and ErrUpdateAfterFinalize.
func (s *State) Write(p []byte) (int, error) {
	if err := s.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// hashAdapter wraps a State to satisfy the standard library's hash.Hash
// interface, for callers that already build on that convention.
type hashAdapter struct {
	params *Params
	state  *State
}

// NewHash returns a hash.Hash-compatible BLAKE2b instance built from p.
func (p *Params) NewHash() (hash.Hash, error) {
	s, err := p.ToState()
	if err != nil {
		return nil, err
	}
	return &hashAdapter{params: p, state: s}, nil
}

func (a *hashAdapter) Write(p []byte) (int, error) { return a.state.Write(p) }

func (a *hashAdapter) Sum(b []byte) []byte {
	d := a.state.clone().Finalize()
	return append(b, d.Bytes()...)
}

func (a *hashAdapter) Reset() {
	s, _ := a.params.ToState()
	a.state = s
}

func (a *hashAdapter) Size() int      { return a.state.clone().digestLen() }
func (a *hashAdapter) BlockSize() int { return BlockSize }

func (s *State) digestLen() int { return int(s.digestLn) }
