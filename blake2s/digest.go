package blake2s

import "encoding/hex"

// Digest is an immutable, fixed-length BLAKE2s output.
type Digest struct {
	bytes [Size]byte
	size  uint8
}

// Bytes returns the digest's bytes, truncated to its configured length.
func (d *Digest) Bytes() []byte { return d.bytes[:d.size] }

// Len returns the digest length in bytes.
func (d *Digest) Len() int { return int(d.size) }

// Hex renders the digest as lowercase hexadecimal.
func (d *Digest) Hex() string { return hex.EncodeToString(d.Bytes()) }

func (d *Digest) String() string { return d.Hex() }

// Equal reports whether two digests hold the same bytes. This is a plain
// byte comparison, not a constant-time one.
func (d *Digest) Equal(other *Digest) bool {
	if d.size != other.size {
		return false
	}
	for i := uint8(0); i < d.size; i++ {
		if d.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}
