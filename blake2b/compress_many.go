package blake2b

import "math/bits"

// maxLanes is the widest lockstep group the multi-state engine accepts:
// eight independent BLAKE2b states, one per 64-bit lane of a 512-bit
// vector word.
const maxLanes = 8

// CompressMany absorbs exactly one full block into each of up to eight
// states, advancing them in lockstep through the transposed multi-state
// compressor. Each state's block is drawn from its hold buffer first and
// topped up from the head of inputs[i]; consumed[i] receives the number
// of bytes taken from inputs[i].
//
// The caller must guarantee that every state has strictly more than one
// block pending (Buffered() plus len(inputs[i]) > BlockSize), so the
// block compressed here can never be the final one and the hold-last-
// block invariant survives: after the call at least one pending byte
// remains per state.
func CompressMany(states []*State, inputs [][]byte, consumed []int) {
	n := len(states)
	if n > maxLanes {
		panic("blake2b: lockstep group exceeds lane width")
	}

	var blocks [maxLanes][BlockSize]byte
	var hs [maxLanes]*[8]uint64
	var t0, t1, fmask, lmask [maxLanes]uint64
	for i := 0; i < n; i++ {
		s := states[i]
		take := copy(blocks[i][:], s.buf[:s.buflen])
		need := copy(blocks[i][take:], inputs[i][:BlockSize-take])
		consumed[i] = need
		s.buflen = 0
		s.addCounter(BlockSize)
		hs[i] = &s.h
		t0[i], t1[i] = s.t, s.th
	}

	compressMany(n, &hs, &blocks, &t0, &t1, &fmask, &lmask)
}

// compressMany is the transposed multi-state compression. The working
// vector V becomes 16 lane vectors of maxLanes words each; lane j of
// every vector carries state j, so the body below is compressGeneric
// with each scalar op widened to n lanes. No data ever crosses lanes
// except at this load and the final store, so each hs[j] ends exactly as
// if compressGeneric had been applied to it alone.
//
// Counters and the finalize/last-node flags are per-lane: fmask[j] and
// lmask[j] are all-ones for a lane whose block is final / last-node and
// zero otherwise, XORed into V[14]/V[15] as the scalar flags would be.
func compressMany(n int, hs *[maxLanes]*[8]uint64, blocks *[maxLanes][BlockSize]byte, t0, t1, fmask, lmask *[maxLanes]uint64) {
	var m [16][maxLanes]uint64
	for j := 0; j < n; j++ {
		b := &blocks[j]
		for w := 0; w < 16; w++ {
			m[w][j] = uint64(b[w*8]) | uint64(b[w*8+1])<<8 |
				uint64(b[w*8+2])<<16 | uint64(b[w*8+3])<<24 |
				uint64(b[w*8+4])<<32 | uint64(b[w*8+5])<<40 |
				uint64(b[w*8+6])<<48 | uint64(b[w*8+7])<<56
		}
	}

	var v [16][maxLanes]uint64
	for j := 0; j < n; j++ {
		h := hs[j]
		for w := 0; w < 8; w++ {
			v[w][j] = h[w]
		}
		v[8][j], v[9][j], v[10][j], v[11][j] = iv[0], iv[1], iv[2], iv[3]
		v[12][j] = iv[4] ^ t0[j]
		v[13][j] = iv[5] ^ t1[j]
		v[14][j] = iv[6] ^ fmask[j]
		v[15][j] = iv[7] ^ lmask[j]
	}

	g := func(a, b, c, d int, x, y *[maxLanes]uint64) {
		va, vb, vc, vd := &v[a], &v[b], &v[c], &v[d]
		for j := 0; j < n; j++ {
			va[j] += vb[j] + x[j]
			vd[j] = bits.RotateLeft64(vd[j]^va[j], -32)
			vc[j] += vd[j]
			vb[j] = bits.RotateLeft64(vb[j]^vc[j], -24)
			va[j] += vb[j] + y[j]
			vd[j] = bits.RotateLeft64(vd[j]^va[j], -16)
			vc[j] += vd[j]
			vb[j] = bits.RotateLeft64(vb[j]^vc[j], -63)
		}
	}

	for r := 0; r < rounds; r++ {
		s := &sigma[r]
		g(0, 4, 8, 12, &m[s[0]], &m[s[1]])
		g(1, 5, 9, 13, &m[s[2]], &m[s[3]])
		g(2, 6, 10, 14, &m[s[4]], &m[s[5]])
		g(3, 7, 11, 15, &m[s[6]], &m[s[7]])
		g(0, 5, 10, 15, &m[s[8]], &m[s[9]])
		g(1, 6, 11, 12, &m[s[10]], &m[s[11]])
		g(2, 7, 8, 13, &m[s[12]], &m[s[13]])
		g(3, 4, 9, 14, &m[s[14]], &m[s[15]])
	}

	for j := 0; j < n; j++ {
		h := hs[j]
		for w := 0; w < 8; w++ {
			h[w] ^= v[w][j] ^ v[w+8][j]
		}
	}
}
