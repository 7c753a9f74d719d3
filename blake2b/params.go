package blake2b

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Params collects every BLAKE2b tree-hash header field plus the key and
// last-node flag. A zero-value Params has no key, salt, or personalization
// and a 64-byte digest, but its Fanout and Depth are 0 and are encoded in
// the header as 0, so it does not give sequential BLAKE2b-512 digests;
// DefaultParams sets both to 1 for that.
//
// Params is a builder: set fields, then call Finalize-consuming methods
// such as Hash, ToState, or the stream adapters. Out-of-range values are
// rejected at build time (To* methods), never silently clamped.
type Params struct {
	DigestLength    uint8
	Key             []byte
	Fanout          uint8
	Depth           uint8
	LeafLength      uint32
	NodeOffset      uint64
	NodeDepth       uint8
	InnerHashLength uint8
	Salt            [MaxSaltSize]byte
	Personal        [MaxPersonalSize]byte
	LastNode        bool
}

// DefaultParams returns a Params describing plain sequential BLAKE2b-512.
func DefaultParams() *Params {
	return &Params{
		DigestLength: Size,
		Fanout:       1,
		Depth:        1,
	}
}

func (p *Params) digestLength() uint8 {
	if p.DigestLength == 0 {
		return Size
	}
	return p.DigestLength
}

func (p *Params) validate() error {
	dl := p.digestLength()
	if dl < 1 || dl > Size {
		return errors.Errorf("blake2b: digest length %d out of range [1,%d]", dl, Size)
	}
	if len(p.Key) > MaxKeySize {
		return errors.Errorf("blake2b: key length %d exceeds %d", len(p.Key), MaxKeySize)
	}
	if p.InnerHashLength > Size {
		return errors.Errorf("blake2b: inner hash length %d exceeds %d", p.InnerHashLength, Size)
	}
	return nil
}

// headerWords builds the XOR mask applied to the IV at state initialization.
// Layout (little-endian, 64 bytes total):
//
//	0       digest_length
//	1       key_length
//	2       fanout
//	3       depth
//	4..7    leaf_length (u32)
//	8..15   node_offset (u64)
//	16      node_depth
//	17      inner_hash_length
//	18..31  reserved (zero)
//	32..47  salt
//	48..63  personal
func (p *Params) headerWords() [8]uint64 {
	var buf [64]byte
	buf[0] = p.digestLength()
	buf[1] = uint8(len(p.Key))
	buf[2] = p.Fanout
	buf[3] = p.Depth
	binary.LittleEndian.PutUint32(buf[4:8], p.LeafLength)
	binary.LittleEndian.PutUint64(buf[8:16], p.NodeOffset)
	buf[16] = p.NodeDepth
	buf[17] = p.InnerHashLength
	copy(buf[32:48], p.Salt[:])
	copy(buf[48:64], p.Personal[:])

	var words [8]uint64
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return words
}
