package blake2b

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecVectorEmpty(t *testing.T) {
	want := "786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce"
	assert.Equal(t, want, Sum512(nil).Hex())
}

func TestSpecVectorFoo(t *testing.T) {
	want := "ca002330e69d3e6b84a46a56a6533fd79d51d97a3bb7cad6c2ff43b354185d6dc1e723fb3db4ae0737e120378424c714bb982d9dc5bbd7a0ab318240ddd18f8d"
	assert.Equal(t, want, Sum512([]byte("foo")).Hex())
}

func TestKeyedPersonalStreaming(t *testing.T) {
	p := &Params{
		DigestLength: 16,
		Fanout:       1,
		Depth:        1,
		Key:          []byte("The Magic Words are Squeamish Ossifrage"),
	}
	copy(p.Personal[:], "L. P. Waterhouse")

	s, err := p.ToState()
	require.NoError(t, err)
	require.NoError(t, s.Update([]byte("foo")))
	require.NoError(t, s.Update([]byte("bar")))
	require.NoError(t, s.Update([]byte("baz")))
	d := s.Finalize()
	assert.Equal(t, "ee8ff4e9be887297cf79348dc35dab56", d.Hex())
}

func TestChunkingInvarianceByteByByte(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	want := Sum512(data).Hex()

	s, err := DefaultParams().ToState()
	require.NoError(t, err)
	for _, b := range data {
		require.NoError(t, s.Update([]byte{b}))
	}
	assert.Equal(t, want, s.Finalize().Hex())
}

func TestChunkingInvarianceRandomSizes(t *testing.T) {
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	want := Sum512(data).Hex()

	chunkSizes := []int{1, 127, 128, 129, 255, 256, 257, 1000, 2000}
	s, err := DefaultParams().ToState()
	require.NoError(t, err)
	off := 0
	i := 0
	for off < len(data) {
		n := chunkSizes[i%len(chunkSizes)]
		i++
		if off+n > len(data) {
			n = len(data) - off
		}
		require.NoError(t, s.Update(data[off:off+n]))
		off += n
	}
	assert.Equal(t, want, s.Finalize().Hex())
}

func TestHoldLastBlockInvariant(t *testing.T) {
	// Exactly N full blocks: finalize must treat the Nth block as final
	// (f=1), not compress it eagerly as f=0 followed by an empty final
	// block.
	for _, n := range []int{1, 2, 3} {
		data := make([]byte, n*BlockSize)
		for i := range data {
			data[i] = byte(i)
		}

		// Reference chain: blocks 1..N-1 with f=0, block N with f=1.
		h := iv
		words := DefaultParams().headerWords()
		for i := range h {
			h[i] ^= words[i]
		}
		for k := 0; k < n; k++ {
			var block [BlockSize]byte
			copy(block[:], data[k*BlockSize:])
			compressGeneric(&h, &block, uint64(k+1)*BlockSize, 0, k == n-1, false)
		}
		var ref [Size]byte
		for i, v := range h {
			binary.LittleEndian.PutUint64(ref[i*8:], v)
		}
		want := hex.EncodeToString(ref[:])

		s, err := DefaultParams().ToState()
		require.NoError(t, err)
		require.NoError(t, s.Update(data))
		got := s.Finalize().Hex()
		assert.Equal(t, want, got, "n=%d blocks", n)
	}
}

func TestParamsChangeDigest(t *testing.T) {
	base := Sum512([]byte("x")).Hex()

	keyed := DefaultParams()
	keyed.Key = []byte("k")
	withKey, err := keyed.Hash([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, base, withKey.Hex())

	withSalt := DefaultParams()
	copy(withSalt.Salt[:], "0123456789abcdef")
	saltedDigest, err := withSalt.Hash([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, base, saltedDigest.Hex())

	withPersonal := DefaultParams()
	copy(withPersonal.Personal[:], "0123456789abcdef")
	personalDigest, err := withPersonal.Hash([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, base, personalDigest.Hex())
}

func TestLengthBounds(t *testing.T) {
	min, err := (&Params{DigestLength: 1}).Hash([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, min.Len())

	max, err := (&Params{DigestLength: 64}).Hash([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 64, max.Len())

	key := make([]byte, MaxKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	_, err = (&Params{Key: key}).Hash([]byte("x"))
	require.NoError(t, err)

	_, err = (&Params{Key: make([]byte, MaxKeySize+1)}).Hash([]byte("x"))
	assert.Error(t, err)

	_, err = (&Params{DigestLength: 65}).Hash([]byte("x"))
	assert.Error(t, err)
}

func TestUpdateAfterFinalize(t *testing.T) {
	s := New()
	require.NoError(t, s.Update([]byte("x")))
	s.Finalize()
	assert.Equal(t, ErrUpdateAfterFinalize, s.Update([]byte("y")))
}

func TestFinalizeIsIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.Update([]byte("x")))
	first := s.Finalize()
	second := s.Finalize()
	assert.True(t, first.Equal(second))
}

func TestDispatchEquivalence(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 3)
	}

	forcePortable = true
	portable := Sum512(data).Hex()
	forcePortable = false
	vector := Sum512(data).Hex()

	assert.Equal(t, portable, vector)
}

func TestCountExcludesUnabsorbedKeyBlock(t *testing.T) {
	s, err := (&Params{Key: []byte("k")}).ToState()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), s.Count())
	require.NoError(t, s.Update([]byte("hello")))
	assert.Equal(t, uint64(5), s.Count())
}

func TestHashHashInterop(t *testing.T) {
	h, err := DefaultParams().NewHash()
	require.NoError(t, err)
	_, _ = h.Write([]byte("foo"))
	sum := h.Sum(nil)
	assert.Equal(t, Sum512([]byte("foo")).Bytes(), sum)
}
