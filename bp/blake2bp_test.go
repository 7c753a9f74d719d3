package bp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blake2x/blake2x/blake2b"
)

// sequentialBlake2bp reimplements BLAKE2bp directly against blake2b.Params,
// independent of the State/Finalize machinery under test, as a ground truth
// for tree agreement.
func sequentialBlake2bp(p *Params, data []byte) (*blake2b.Digest, error) {
	base := &blake2b.Params{
		DigestLength:    p.digestLength(),
		Key:             p.Key,
		Fanout:          fanout,
		Depth:           depth,
		InnerHashLength: blake2b.Size,
	}

	var leafInputs [fanout][]byte
	leaf := 0
	buf := data
	for len(buf) > 0 {
		n := blake2b.BlockSize
		if n > len(buf) {
			n = len(buf)
		}
		leafInputs[leaf] = append(leafInputs[leaf], buf[:n]...)
		buf = buf[n:]
		leaf = (leaf + 1) % fanout
	}

	var rootInput []byte
	for i := 0; i < fanout; i++ {
		lp := *base
		lp.NodeOffset = uint64(i)
		lp.NodeDepth = 0
		lp.LastNode = i == fanout-1
		ls, err := lp.ToState()
		if err != nil {
			return nil, err
		}
		ls.ForceDigestLength(blake2b.Size)
		if err := ls.Update(leafInputs[i]); err != nil {
			return nil, err
		}
		d := ls.Finalize()
		rootInput = append(rootInput, d.Bytes()...)
	}

	rp := *base
	rp.NodeOffset = 0
	rp.NodeDepth = 1
	rp.LastNode = true
	rs, err := rp.ToState()
	if err != nil {
		return nil, err
	}
	rs.ClearBuffer()
	if err := rs.Update(rootInput); err != nil {
		return nil, err
	}
	return rs.Finalize(), nil
}

func TestTreeAgreement(t *testing.T) {
	sizes := []int{0, 1, blake2b.BlockSize - 1, blake2b.BlockSize, blake2b.BlockSize*4 + 37, 10000}
	for _, n := range sizes {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 3)
		}
		want, err := sequentialBlake2bp(DefaultParams(), data)
		require.NoError(t, err)
		got := Sum512(data)
		assert.True(t, want.Equal(got), "size %d", n)
	}
}

func TestTreeAgreementWithKey(t *testing.T) {
	p := &Params{Key: []byte("a shared key")}
	data := make([]byte, blake2b.BlockSize*5+3)
	for i := range data {
		data[i] = byte(i)
	}
	want, err := sequentialBlake2bp(p, data)
	require.NoError(t, err)
	got, err := p.Hash(data)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestStreamingAgreesWithOneShot(t *testing.T) {
	data := make([]byte, blake2b.BlockSize*9+5)
	for i := range data {
		data[i] = byte(i * 7)
	}
	want := Sum512(data)

	s := New()
	require.NoError(t, s.Update(data[:100]))
	require.NoError(t, s.Update(data[100:]))
	assert.True(t, want.Equal(s.Finalize()))
}
