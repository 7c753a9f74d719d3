// Package blake2b implements the BLAKE2b cryptographic hash function,
// including its full tree-hashing parameterization. See bp for the fixed
// BLAKE2bp tree variant and blake2b/many for batched hashing.
package blake2b

// Hash computes the one-shot BLAKE2b digest of data under p.
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

// Sum512 returns the default BLAKE2b-512 digest of data with no key.
func Sum512(data []byte) *Digest {
	d, _ := DefaultParams().Hash(data)
	return d
}
