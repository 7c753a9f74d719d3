package blake2s

import "hash"

// Write implements io.Writer over Update.
func (s *State) Write(p []byte) (int, error) {
	if err := s.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

type hashAdapter struct {
	params *Params
	state  *State
}

// NewHash returns a hash.Hash-compatible BLAKE2s instance built from p.
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
