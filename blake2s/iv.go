package blake2s

// BlockSize is the size in bytes of a BLAKE2s compression block.
const BlockSize = 64

// Size is the default (maximum) digest size in bytes.
const Size = 32

// MaxKeySize, MaxSaltSize and MaxPersonalSize are the largest values those
// header fields may take for BLAKE2s.
const (
	MaxKeySize      = 32
	MaxSaltSize     = 8
	MaxPersonalSize = 8
	// maxNodeOffset is BLAKE2s's 48-bit node_offset range.
	maxNodeOffset = 1<<48 - 1
)

const rounds = 10

var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// sigma is the message-word permutation schedule, one row per round.
// BLAKE2s uses the same schedule as BLAKE2b's first 10 rounds.
var sigma = [10][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}
