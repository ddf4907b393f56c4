package container

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	bin "github.com/saylorsolutions/binmap"
	"golang.org/x/crypto/hkdf"
)

const (
	Magic   uint16 = 0x5852
	Version uint8  = 1

	SaltSize      = 16
	SignatureSize = sha256.Size
	// HeaderSize is the encoded size of a container header in bytes.
	HeaderSize = 2 + 1 + 1 + 1 + 4 + SaltSize + SignatureSize

	signatureInfo = "xrc signature"
)

var (
	ErrInvalidHeader     = errors.New("invalid container header")
	ErrSignatureMismatch = errors.New("signature mismatch, the key is incorrect")
)

// Mode selects the codec that is applied to each chunk.
type Mode uint8

const (
	ModeTable Mode = iota
	ModeLite
)

func (m Mode) String() string {
	switch m {
	case ModeTable:
		return "table"
	case ModeLite:
		return "lite"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Compression selects the compression that is applied to each chunk before it's encoded.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name as returned by Compression.String back to its value.
func ParseCompression(name string) (Compression, error) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compression '%s'", name)
}

// Header describes a container.
type Header struct {
	magic       uint16
	Version     uint8
	Mode        Mode
	Compression Compression
	ChunkSize   uint32
	Salt        [SaltSize]byte
	Signature   [SignatureSize]byte
}

func (h *Header) mapper() bin.Mapper {
	mappers := []bin.Mapper{
		bin.Int(&h.magic),
		bin.Byte(&h.Version),
		bin.Byte((*uint8)(&h.Mode)),
		bin.Byte((*uint8)(&h.Compression)),
		bin.Int(&h.ChunkSize),
	}
	for i := range h.Salt {
		mappers = append(mappers, bin.Byte(&h.Salt[i]))
	}
	for i := range h.Signature {
		mappers = append(mappers, bin.Byte(&h.Signature[i]))
	}
	return bin.MapSequence(mappers...)
}

func newHeader(mode Mode, compression Compression, chunkSize uint32, keystream, key []byte) (*Header, error) {
	h := &Header{
		magic:       Magic,
		Version:     Version,
		Mode:        mode,
		Compression: compression,
		ChunkSize:   chunkSize,
	}
	if _, err := rand.Read(h.Salt[:]); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	sig, err := sign(keystream, h.Salt[:], key)
	if err != nil {
		return nil, err
	}
	copy(h.Signature[:], sig)
	return h, nil
}

// ReadHeader reads and validates a container header from r.
// The signature is not checked, since that requires the key.
func ReadHeader(r io.Reader) (*Header, error) {
	h := new(Header)
	if err := h.mapper().Read(r, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) write(w io.Writer) error {
	return h.mapper().Write(w, binary.BigEndian)
}

func (h *Header) validate() error {
	switch {
	case h.magic != Magic:
		return fmt.Errorf("%w: unrecognized magic bytes 0x%04x", ErrInvalidHeader, h.magic)
	case h.Version != Version:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, h.Version)
	case h.Mode > ModeLite:
		return fmt.Errorf("%w: unknown mode %s", ErrInvalidHeader, h.Mode)
	case h.Compression > CompressionZstd:
		return fmt.Errorf("%w: unknown compression %s", ErrInvalidHeader, h.Compression)
	}
	if err := ValidateChunkSize(int64(h.ChunkSize)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return nil
}

// verify checks that key produced this header's signature.
func (h *Header) verify(keystream, key []byte) error {
	sig, err := sign(keystream, h.Salt[:], key)
	if err != nil {
		return err
	}
	if !hmac.Equal(sig, h.Signature[:]) {
		return ErrSignatureMismatch
	}
	return nil
}

func sign(keystream, salt, key []byte) ([]byte, error) {
	macKey := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, keystream, salt, []byte(signatureInfo)), macKey); err != nil {
		return nil, fmt.Errorf("failed to derive signature key: %w", err)
	}
	mac := hmac.New(sha256.New, macKey)
	mac.Write(key)
	return mac.Sum(nil), nil
}
