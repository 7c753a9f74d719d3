package blake2s

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Params collects every BLAKE2s tree-hash header field plus the key and
// last-node flag. A zero-value Params has no key, salt, or personalization
// and a 32-byte digest, but its Fanout and Depth are 0 and are encoded in
// the header as 0, so it does not give sequential BLAKE2s-256 digests;
// DefaultParams sets both to 1 for that.
type Params struct {
	DigestLength    uint8
	Key             []byte
	Fanout          uint8
	Depth           uint8
	LeafLength      uint32
	NodeOffset      uint64 // range-checked to 2^48-1
	NodeDepth       uint8
	InnerHashLength uint8
	Salt            [MaxSaltSize]byte
	Personal        [MaxPersonalSize]byte
	LastNode        bool
}

// DefaultParams returns a Params describing plain sequential BLAKE2s-256.
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
		return errors.Errorf("blake2s: digest length %d out of range [1,%d]", dl, Size)
	}
	if len(p.Key) > MaxKeySize {
		return errors.Errorf("blake2s: key length %d exceeds %d", len(p.Key), MaxKeySize)
	}
	if p.InnerHashLength > Size {
		return errors.Errorf("blake2s: inner hash length %d exceeds %d", p.InnerHashLength, Size)
	}
	if p.NodeOffset > maxNodeOffset {
		return errors.Errorf("blake2s: node offset %d exceeds 48-bit range", p.NodeOffset)
	}
	return nil
}

// headerWords builds the XOR mask applied to the IV at state initialization.
// Layout (little-endian, 32 bytes total):
//
//	0     digest_length
//	1     key_length
//	2     fanout
//	3     depth
//	4..7  leaf_length (u32)
//	8..13 node_offset (u48)
//	14    node_depth
//	15    inner_hash_length
//	16..23 salt
//	24..31 personal
func (p *Params) headerWords() [8]uint32 {
	var buf [32]byte
	buf[0] = p.digestLength()
	buf[1] = uint8(len(p.Key))
	buf[2] = p.Fanout
	buf[3] = p.Depth
	binary.LittleEndian.PutUint32(buf[4:8], p.LeafLength)
	var off [8]byte
	binary.LittleEndian.PutUint64(off[:], p.NodeOffset)
	copy(buf[8:14], off[:6])
	buf[14] = p.NodeDepth
	buf[15] = p.InnerHashLength
	copy(buf[16:24], p.Salt[:])
	copy(buf[24:32], p.Personal[:])

	var words [8]uint32
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return words
}
