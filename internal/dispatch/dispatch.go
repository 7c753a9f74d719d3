// Package dispatch selects, once per process, the widest multi-state lane
// width this machine's CPU features support. The record is computed
// lazily on first use and is read-only afterward; no runtime
// reconfiguration is supported.
package dispatch

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Level names a multi-state lane width. Larger levels process more
// independent hash states per dispatch round.
type Level int

const (
	// Portable processes one state at a time with no lane batching.
	Portable Level = iota
	// Vector4 batches 4 BLAKE2b or 8 BLAKE2s states per round
	// (SSE4/NEON-width class).
	Vector4
	// Vector8 batches 8 states per round (AVX2-width class).
	Vector8
	// Vector16 batches 8 BLAKE2b or 16 BLAKE2s states per round
	// (AVX-512-width class).
	Vector16
)

func (l Level) String() string {
	switch l {
	case Vector16:
		return "vector16"
	case Vector8:
		return "vector8"
	case Vector4:
		return "vector4"
	default:
		return "portable"
	}
}

var (
	once     sync.Once
	selected Level
)

// Selected returns the process-wide dispatch level, probing CPU features
// exactly once.
func Selected() Level {
	once.Do(func() {
		selected = probe()
	})
	return selected
}

func probe() Level {
	switch {
	case cpu.X86.HasAVX512F:
		return Vector16
	case cpu.X86.HasAVX2:
		return Vector8
	case cpu.X86.HasSSE41, cpu.ARM64.HasASIMD:
		return Vector4
	default:
		return Portable
	}
}
