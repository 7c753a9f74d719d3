package blake2s

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorEmpty(t *testing.T) {
	want := "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9"
	assert.Equal(t, want, Sum256(nil).Hex())
}

func TestVectorFoo(t *testing.T) {
	want := "08d6cad88075de8f192db097573d0e829411cd91eb6ec65e8fc16c017edfdb74"
	assert.Equal(t, want, Sum256([]byte("foo")).Hex())
}

func TestChunkingInvariance(t *testing.T) {
	data := make([]byte, 2000)
	for i := range data {
		data[i] = byte(i * 11)
	}
	want := Sum256(data).Hex()

	chunkSizes := []int{1, 63, 64, 65, 130, 500}
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
			compressGeneric(&h, &block, uint32(k+1)*BlockSize, 0, k == n-1, false)
		}
		var ref [Size]byte
		for i, v := range h {
			binary.LittleEndian.PutUint32(ref[i*4:], v)
		}
		want := hex.EncodeToString(ref[:])

		s, err := DefaultParams().ToState()
		require.NoError(t, err)
		require.NoError(t, s.Update(data))
		assert.Equal(t, want, s.Finalize().Hex(), "n=%d blocks", n)
	}
}

func TestParamsChangeDigest(t *testing.T) {
	base := Sum256([]byte("x")).Hex()

	keyed := DefaultParams()
	keyed.Key = []byte("k")
	withKey, err := keyed.Hash([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, base, withKey.Hex())

	withSalt := DefaultParams()
	copy(withSalt.Salt[:], "01234567")
	saltedDigest, err := withSalt.Hash([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, base, saltedDigest.Hex())
}

func TestLengthBounds(t *testing.T) {
	min, err := (&Params{DigestLength: 1}).Hash([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, min.Len())

	_, err = (&Params{DigestLength: 33}).Hash([]byte("x"))
	assert.Error(t, err)

	_, err = (&Params{Key: make([]byte, MaxKeySize+1)}).Hash([]byte("x"))
	assert.Error(t, err)

	_, err = (&Params{NodeOffset: maxNodeOffset + 1}).Hash([]byte("x"))
	assert.Error(t, err)
}

func TestUpdateAfterFinalize(t *testing.T) {
	s := New()
	require.NoError(t, s.Update([]byte("x")))
	s.Finalize()
	assert.Equal(t, ErrUpdateAfterFinalize, s.Update([]byte("y")))
}

func TestDispatchEquivalence(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 5)
	}

	forcePortable = true
	portable := Sum256(data).Hex()
	forcePortable = false
	vector := Sum256(data).Hex()

	assert.Equal(t, portable, vector)
}

func TestHashHashInterop(t *testing.T) {
	h, err := DefaultParams().NewHash()
	require.NoError(t, err)
	_, _ = h.Write([]byte("foo"))
	assert.Equal(t, Sum256([]byte("foo")).Bytes(), h.Sum(nil))
}
