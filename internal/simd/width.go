// Package simd supplies the multi-state lane-width table shared by
// blake2b/many and blake2s/many: given the dispatch level chosen once per
// process by internal/dispatch, how many independent states can be
// advanced per round for each word size.
package simd

import "github.com/blake2x/blake2x/internal/dispatch"

// BlakeBWidth returns the BLAKE2b (64-bit word) multi-state width for a
// dispatch level: N in {4, 8} for the vector levels, 1 for Portable.
func BlakeBWidth(level dispatch.Level) int {
	switch level {
	case dispatch.Vector16, dispatch.Vector8:
		return 8
	case dispatch.Vector4:
		return 4
	default:
		return 1
	}
}

// BlakeSWidth returns the BLAKE2s (32-bit word) multi-state width for a
// dispatch level: N in {8, 16} for the vector levels, 1 for Portable. A 32-bit word packs twice as many lanes
// per vector register as a 64-bit word, so the same register width yields
// double the BlakeB width.
func BlakeSWidth(level dispatch.Level) int {
	switch level {
	case dispatch.Vector16:
		return 16
	case dispatch.Vector8, dispatch.Vector4:
		return 8
	default:
		return 1
	}
}
