// Command b2sum is the CLI driver for the blake2x library. It is a thin
// consumer of the streaming interface: all hashing logic lives in the
// blake2b, blake2s, bp and sp packages; this file only parses flags,
// enumerates input, and formats output in the GNU b2sum convention.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/jacohend/flag"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/blake2x/blake2x/blake2b"
	"github.com/blake2x/blake2x/blake2s"
	"github.com/blake2x/blake2x/bp"
	"github.com/blake2x/blake2x/sp"
)

var log = logrus.New()

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("b2sum", flag.ContinueOnError)

	useB2s := fs.Bool("s", false, "use BLAKE2s instead of BLAKE2b")
	useB2b := fs.Bool("b", false, "use BLAKE2b (default)")
	parallel := fs.Bool("p", false, "use the fixed-fanout parallel tree variant (blake2bp/blake2sp)")
	length := fs.Int("length", 0, "digest length in bytes (default: 64 for b, 32 for s)")
	keyHex := fs.String("key", "", "secret key, hex-encoded")
	saltHex := fs.String("salt", "", "salt, hex-encoded")
	personalHex := fs.String("personal", "", "personalization string, hex-encoded")
	fanout := fs.Int("fanout", 1, "tree fanout, 1 for sequential hashing (ignored by -p)")
	maxDepth := fs.Int("max-depth", 1, "tree max depth, 1 for sequential hashing (ignored by -p)")
	maxLeafLength := fs.Int("max-leaf-length", 0, "leaf length in bytes (ignored by -p)")
	nodeOffset := fs.Int("node-offset", 0, "node offset (ignored by -p)")
	nodeDepth := fs.Int("node-depth", 0, "node depth (ignored by -p)")
	innerHashLength := fs.Int("inner-hash-length", 0, "inner hash length in bytes (ignored by -p)")
	lastNode := fs.Bool("last-node", false, "mark this node as the rightmost node of its tree level (ignored by -p)")
	useMmap := fs.Bool("mmap", false, "memory-map input files instead of reading them")
	tag := fs.Bool("tag", false, "emit BSD-style 'ALGO (file) = digest' output")
	version := fs.Bool("version", false, "print version banner and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		figure.NewColorFigure("BLAKE2", "colossal", "cyan", false).Print()
		fmt.Println("b2sum (blake2x)")
		return 0
	}

	key, err := hexFlag(*keyHex)
	if err != nil {
		log.WithError(err).Error("bad --key")
		return 2
	}
	salt, err := hexFlag(*saltHex)
	if err != nil {
		log.WithError(err).Error("bad --salt")
		return 2
	}
	personal, err := hexFlag(*personalHex)
	if err != nil {
		log.WithError(err).Error("bad --personal")
		return 2
	}

	algo := "blake2b"
	if *useB2s && !*useB2b {
		algo = "blake2s"
	}

	hasher, err := newHasher(algo, *parallel, hasherOptions{
		length:          *length,
		key:             key,
		salt:            salt,
		personal:        personal,
		fanout:          *fanout,
		maxDepth:        *maxDepth,
		maxLeafLength:   *maxLeafLength,
		nodeOffset:      *nodeOffset,
		nodeDepth:       *nodeDepth,
		innerHashLength: *innerHashLength,
		lastNode:        *lastNode,
	})
	if err != nil {
		log.WithError(err).Error("bad parameters")
		return 1
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	tagName := "BLAKE2b"
	if algo == "blake2s" {
		tagName = "BLAKE2s"
	}
	if *parallel {
		tagName += "p"
	}

	runID := uuid.New().String()
	exit := 0
	for _, path := range paths {
		digestHex, err := hashPath(hasher, path, *useMmap)
		if err != nil {
			log.WithError(err).WithField("file", path).WithField("run_id", runID).Error("b2sum")
			exit = 1
			continue
		}
		if *tag {
			fmt.Printf("%s (%s) = %s\n", tagName, path, digestHex)
		} else {
			fmt.Printf("%s  %s\n", digestHex, path)
		}
	}
	return exit
}

func hexFlag(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return b, nil
}

type hasherOptions struct {
	length                                                                int
	key, salt, personal                                                   []byte
	fanout, maxDepth, maxLeafLength, nodeOffset, nodeDepth, innerHashLength int
	lastNode                                                              bool
}

// hasher abstracts over blake2b/blake2s/bp/sp's independent Hash(data)
// methods so the driver loop doesn't need to branch per algorithm.
type hasher interface {
	Hash(data []byte) (hex string, err error)
}

// checkOptions rejects flag values before the narrowing uint8/uint32
// conversions below. A bare conversion wraps mod 2^width, so an
// out-of-range flag would reach Params.validate already disguised as an
// in-range value (--length 300 wraps to 44, --length 256 to 0, which
// Params then reads as "use the default"); the library can only reject
// what the conversion hasn't already destroyed. The key length is checked
// here too, so an oversize --key is rejected before any input is read.
// Flags the parallel variants document as ignored are not checked under -p.
func checkOptions(algo string, parallel bool, o hasherOptions) error {
	maxDigest, maxKey := blake2b.Size, blake2b.MaxKeySize
	maxSalt, maxPersonal := blake2b.MaxSaltSize, blake2b.MaxPersonalSize
	if algo == "blake2s" {
		maxDigest, maxKey = blake2s.Size, blake2s.MaxKeySize
		maxSalt, maxPersonal = blake2s.MaxSaltSize, blake2s.MaxPersonalSize
	}
	if o.length < 0 || o.length > maxDigest {
		return errors.Errorf("digest length %d out of range [1,%d]", o.length, maxDigest)
	}
	if len(o.key) > maxKey {
		return errors.Errorf("key length %d exceeds %d", len(o.key), maxKey)
	}
	if parallel {
		return nil
	}
	if len(o.salt) > maxSalt {
		return errors.Errorf("salt length %d exceeds %d", len(o.salt), maxSalt)
	}
	if len(o.personal) > maxPersonal {
		return errors.Errorf("personal length %d exceeds %d", len(o.personal), maxPersonal)
	}
	if o.fanout < 0 || o.fanout > 255 {
		return errors.Errorf("fanout %d out of range [0,255]", o.fanout)
	}
	if o.maxDepth < 0 || o.maxDepth > 255 {
		return errors.Errorf("max depth %d out of range [0,255]", o.maxDepth)
	}
	if o.nodeDepth < 0 || o.nodeDepth > 255 {
		return errors.Errorf("node depth %d out of range [0,255]", o.nodeDepth)
	}
	if o.innerHashLength < 0 || o.innerHashLength > maxDigest {
		return errors.Errorf("inner hash length %d out of range [0,%d]", o.innerHashLength, maxDigest)
	}
	if o.maxLeafLength < 0 || int64(o.maxLeafLength) > math.MaxUint32 {
		return errors.Errorf("max leaf length %d out of range [0,%d]", o.maxLeafLength, int64(math.MaxUint32))
	}
	if o.nodeOffset < 0 {
		return errors.Errorf("node offset %d is negative", o.nodeOffset)
	}
	return nil
}

func newHasher(algo string, parallel bool, o hasherOptions) (hasher, error) {
	if err := checkOptions(algo, parallel, o); err != nil {
		return nil, err
	}
	switch {
	case algo == "blake2s" && parallel:
		p := &sp.Params{Key: o.key}
		if o.length != 0 {
			p.DigestLength = uint8(o.length)
		}
		return spHasher{p}, nil
	case algo == "blake2s":
		p := &blake2s.Params{
			Key:             o.key,
			Fanout:          uint8(o.fanout),
			Depth:           uint8(o.maxDepth),
			LeafLength:      uint32(o.maxLeafLength),
			NodeOffset:      uint64(o.nodeOffset),
			NodeDepth:       uint8(o.nodeDepth),
			InnerHashLength: uint8(o.innerHashLength),
			LastNode:        o.lastNode,
		}
		if o.length != 0 {
			p.DigestLength = uint8(o.length)
		}
		copy(p.Salt[:], o.salt)
		copy(p.Personal[:], o.personal)
		return b2sHasher{p}, nil
	case parallel:
		p := &bp.Params{Key: o.key}
		if o.length != 0 {
			p.DigestLength = uint8(o.length)
		}
		return bpHasher{p}, nil
	default:
		p := &blake2b.Params{
			Key:             o.key,
			Fanout:          uint8(o.fanout),
			Depth:           uint8(o.maxDepth),
			LeafLength:      uint32(o.maxLeafLength),
			NodeOffset:      uint64(o.nodeOffset),
			NodeDepth:       uint8(o.nodeDepth),
			InnerHashLength: uint8(o.innerHashLength),
			LastNode:        o.lastNode,
		}
		if o.length != 0 {
			p.DigestLength = uint8(o.length)
		}
		copy(p.Salt[:], o.salt)
		copy(p.Personal[:], o.personal)
		return b2bHasher{p}, nil
	}
}

type b2bHasher struct{ p *blake2b.Params }

func (h b2bHasher) Hash(data []byte) (string, error) {
	d, err := h.p.Hash(data)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

type b2sHasher struct{ p *blake2s.Params }

func (h b2sHasher) Hash(data []byte) (string, error) {
	d, err := h.p.Hash(data)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

type bpHasher struct{ p *bp.Params }

func (h bpHasher) Hash(data []byte) (string, error) {
	d, err := h.p.Hash(data)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

type spHasher struct{ p *sp.Params }

func (h spHasher) Hash(data []byte) (string, error) {
	d, err := h.p.Hash(data)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

func hashPath(h hasher, path string, useMmap bool) (string, error) {
	data, err := readInput(path, useMmap)
	if err != nil {
		return "", errors.Wrap(err, "read input")
	}
	return h.Hash(data)
}

func readInput(path string, useMmap bool) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !useMmap {
		return io.ReadAll(f)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}
	defer m.Unmap()
	out := make([]byte, len(m))
	copy(out, m)
	return out, nil
}
