package blake2s

import "math/bits"

// maxLanes is the widest lockstep group the multi-state engine accepts:
// sixteen independent BLAKE2s states, one per 32-bit lane of a 512-bit
// vector word. Double blake2b's width for the same register width.
const maxLanes = 16

// CompressMany absorbs exactly one full block into each of up to sixteen
// states, advancing them in lockstep through the transposed multi-state
// compressor. See blake2b.CompressMany for the full contract; the caller
// must leave strictly more than one block pending per state so the block
// compressed here is never the final one.
func CompressMany(states []*State, inputs [][]byte, consumed []int) {
	n := len(states)
	if n > maxLanes {
		panic("blake2s: lockstep group exceeds lane width")
	}

	var blocks [maxLanes][BlockSize]byte
	var hs [maxLanes]*[8]uint32
	var t0, t1, fmask, lmask [maxLanes]uint32
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

// compressMany is the transposed multi-state compression for BLAKE2s:
// lane j of every 16-lane vector carries state j, counters and the
// finalize/last-node masks are per-lane, and no data crosses lanes
// except at load and store. See blake2b's compressMany for the design
// discussion; only the word width, rotation constants and round count
// differ.
func compressMany(n int, hs *[maxLanes]*[8]uint32, blocks *[maxLanes][BlockSize]byte, t0, t1, fmask, lmask *[maxLanes]uint32) {
	var m [16][maxLanes]uint32
	for j := 0; j < n; j++ {
		b := &blocks[j]
		for w := 0; w < 16; w++ {
			m[w][j] = uint32(b[w*4]) | uint32(b[w*4+1])<<8 |
				uint32(b[w*4+2])<<16 | uint32(b[w*4+3])<<24
		}
	}

	var v [16][maxLanes]uint32
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

	g := func(a, b, c, d int, x, y *[maxLanes]uint32) {
		va, vb, vc, vd := &v[a], &v[b], &v[c], &v[d]
		for j := 0; j < n; j++ {
			va[j] += vb[j] + x[j]
			vd[j] = bits.RotateLeft32(vd[j]^va[j], -16)
			vc[j] += vd[j]
			vb[j] = bits.RotateLeft32(vb[j]^vc[j], -12)
			va[j] += vb[j] + y[j]
			vd[j] = bits.RotateLeft32(vd[j]^va[j], -8)
			vc[j] += vd[j]
			vb[j] = bits.RotateLeft32(vb[j]^vc[j], -7)
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
