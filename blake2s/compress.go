package blake2s

import "github.com/blake2x/blake2x/internal/dispatch"

var forcePortable bool

// compress is the thin dispatcher every block compression goes through.
func compress(h *[8]uint32, block *[BlockSize]byte, t uint32, th uint32, final, lastNode bool) {
	if forcePortable || dispatch.Selected() == dispatch.Portable {
		compressGeneric(h, block, t, th, final, lastNode)
		return
	}
	compressVector(h, block, t, th, final, lastNode)
}
