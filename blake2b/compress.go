package blake2b

import "github.com/blake2x/blake2x/internal/dispatch"

// forcePortable lets tests pin the portable path to verify dispatch
// equivalence against whatever this machine selects.
var forcePortable bool

// compress is the thin dispatcher every block compression goes through.
// It never mutates anything but h.
func compress(h *[8]uint64, block *[BlockSize]byte, t uint64, th uint64, final, lastNode bool) {
	if forcePortable || dispatch.Selected() == dispatch.Portable {
		compressGeneric(h, block, t, th, final, lastNode)
		return
	}
	compressVector(h, block, t, th, final, lastNode)
}
