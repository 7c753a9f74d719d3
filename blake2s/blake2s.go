// Package blake2s implements the BLAKE2s cryptographic hash function,
// including its full tree-hashing parameterization. See sp for the fixed
// BLAKE2sp tree variant and blake2s/many for batched hashing.
package blake2s

// Hash computes the one-shot BLAKE2s digest of data under p.
func (p *Params) Hash(data []byte) (*Digest, error) {
	s, err := p.ToState()
	if err != nil {
		return nil, err
	}
	if err := s.Update(data); err != nil {
		return nil, err
	}
	return s.Finalize(), nil
}

// Sum256 returns the default BLAKE2s-256 digest of data with no key.
func Sum256(data []byte) *Digest {
	d, _ := DefaultParams().Hash(data)
	return d
}
