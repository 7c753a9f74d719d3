package blake2s

import "math/bits"

// compressGeneric is the portable reference compression function F for
// BLAKE2s.
func compressGeneric(h *[8]uint32, block *[BlockSize]byte, t uint32, th uint32, final, lastNode bool) {
	var m [16]uint32
	for i := range m {
		m[i] = uint32(block[i*4]) | uint32(block[i*4+1])<<8 |
			uint32(block[i*4+2])<<16 | uint32(block[i*4+3])<<24
	}

	v0, v1, v2, v3, v4, v5, v6, v7 := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	v8, v9, v10, v11 := iv[0], iv[1], iv[2], iv[3]
	v12, v13 := iv[4]^t, iv[5]^th
	v14, v15 := iv[6], iv[7]
	if final {
		v14 = ^v14
	}
	if lastNode {
		v15 = ^v15
	}

	g := func(a, b, c, d *uint32, mx, my uint32) {
		*a += *b + mx
		*d = bits.RotateLeft32(*d^*a, -16)
		*c += *d
		*b = bits.RotateLeft32(*b^*c, -12)
		*a += *b + my
		*d = bits.RotateLeft32(*d^*a, -8)
		*c += *d
		*b = bits.RotateLeft32(*b^*c, -7)
	}

	for r := 0; r < rounds; r++ {
		s := &sigma[r]
		g(&v0, &v4, &v8, &v12, m[s[0]], m[s[1]])
		g(&v1, &v5, &v9, &v13, m[s[2]], m[s[3]])
		g(&v2, &v6, &v10, &v14, m[s[4]], m[s[5]])
		g(&v3, &v7, &v11, &v15, m[s[6]], m[s[7]])
		g(&v0, &v5, &v10, &v15, m[s[8]], m[s[9]])
		g(&v1, &v6, &v11, &v12, m[s[10]], m[s[11]])
		g(&v2, &v7, &v8, &v13, m[s[12]], m[s[13]])
		g(&v3, &v4, &v9, &v14, m[s[14]], m[s[15]])
	}

	h[0] ^= v0 ^ v8
	h[1] ^= v1 ^ v9
	h[2] ^= v2 ^ v10
	h[3] ^= v3 ^ v11
	h[4] ^= v4 ^ v12
	h[5] ^= v5 ^ v13
	h[6] ^= v6 ^ v14
	h[7] ^= v7 ^ v15
}
