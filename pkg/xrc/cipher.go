package xrc

import (
	"errors"
	"fmt"
)

const (
	DefaultMinKeyLen = 6
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingInput    = fmt.Errorf("%w: missing input", ErrInvalidArgument)
	ErrKeyTooShort     = fmt.Errorf("%w: key too short", ErrInvalidArgument)
	ErrKeyTooLong      = fmt.Errorf("%w: key too long", ErrInvalidArgument)
	ErrKeyOutOfRange   = fmt.Errorf("%w: key value out of byte range", ErrInvalidArgument)
)

// Cipher validates a key once and applies the transform with it.
// A Cipher is immutable after construction, and is safe for concurrent use.
type Cipher struct {
	key       []byte
	keystream []byte
	minLen    int
	maxLen    int
}

// CipherOpt configures a Cipher in NewCipher.
// If any CipherOpt returns an error, then construction stops and the error is returned.
type CipherOpt = func(c *Cipher) error

// WithMinKeyLen overrides the DefaultMinKeyLen policy.
// The core transform only needs one key byte, so n must be at least 1.
func WithMinKeyLen(n int) CipherOpt {
	return func(c *Cipher) error {
		if n < 1 {
			return fmt.Errorf("%w: minimum key length must be at least 1, got %d", ErrInvalidArgument, n)
		}
		c.minLen = n
		return nil
	}
}

// WithMaxKeyLen rejects keys longer than n bytes. There is no upper bound by default.
func WithMaxKeyLen(n int) CipherOpt {
	return func(c *Cipher) error {
		if n < 1 {
			return fmt.Errorf("%w: maximum key length must be at least 1, got %d", ErrInvalidArgument, n)
		}
		c.maxLen = n
		return nil
	}
}

// NewCipher validates the key and derives its keystream.
// The key is copied, so the caller may reuse the slice afterward.
func NewCipher(key []byte, opts ...CipherOpt) (*Cipher, error) {
	c := &Cipher{
		minLen: DefaultMinKeyLen,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validateKey(key); err != nil {
		return nil, err
	}
	c.key = append([]byte(nil), key...)
	c.keystream = DeriveKeystream(c.key)
	return c, nil
}

func (c *Cipher) validateKey(key []byte) error {
	if c.maxLen > 0 && c.maxLen < c.minLen {
		return fmt.Errorf("%w: maximum key length %d is less than minimum %d", ErrInvalidArgument, c.maxLen, c.minLen)
	}
	switch {
	case len(key) == 0:
		return fmt.Errorf("%w: key is empty", ErrMissingInput)
	case len(key) < c.minLen:
		return fmt.Errorf("%w: got %d bytes, need at least %d", ErrKeyTooShort, len(key), c.minLen)
	case c.maxLen > 0 && len(key) > c.maxLen:
		return fmt.Errorf("%w: got %d bytes, allowed at most %d", ErrKeyTooLong, len(key), c.maxLen)
	}
	return nil
}

// Encrypt returns the encoding of data. The input is not modified.
func (c *Cipher) Encrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: nothing to encrypt", ErrMissingInput)
	}
	return Encode(data, c.keystream, EncodeTable()), nil
}

// Decrypt reverses Encrypt. The input is not modified.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: nothing to decrypt", ErrMissingInput)
	}
	return Decode(data, c.keystream, DecodeTable()), nil
}

// EncryptString is a convenience for Encrypt with text input.
func (c *Cipher) EncryptString(text string) ([]byte, error) {
	return c.Encrypt([]byte(text))
}

// DecryptString is a convenience for Decrypt that returns the result as text.
func (c *Cipher) DecryptString(data []byte) (string, error) {
	out, err := c.Decrypt(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncryptInPlace encodes buf in place, avoiding an allocation.
// Unlike Encrypt, an empty buf is not an error and is left as is.
func (c *Cipher) EncryptInPlace(buf []byte) {
	EncodeInPlace(buf, c.keystream, EncodeTable())
}

// DecryptInPlace decodes buf in place, avoiding an allocation.
// Unlike Decrypt, an empty buf is not an error and is left as is.
func (c *Cipher) DecryptInPlace(buf []byte) {
	DecodeInPlace(buf, c.keystream, DecodeTable())
}

// Key returns a copy of the key used by this Cipher.
func (c *Cipher) Key() []byte {
	return append([]byte(nil), c.key...)
}

// Keystream returns a copy of the derived keystream.
func (c *Cipher) Keystream() []byte {
	return append([]byte(nil), c.keystream...)
}

// KeyFromString uses the UTF-8 bytes of s as a key.
func KeyFromString(s string) []byte {
	return []byte(s)
}

// KeyFromRunes uses one byte per rune, which only makes sense for text in the Latin-1 range.
// Runes above 0xFF are rejected rather than truncated.
func KeyFromRunes(runes []rune) ([]byte, error) {
	key := make([]byte, len(runes))
	for i, r := range runes {
		if r < 0 || r > 0xFF {
			return nil, fmt.Errorf("%w: rune %q at index %d", ErrKeyOutOfRange, r, i)
		}
		key[i] = byte(r)
	}
	return key, nil
}
