// Package padded implements the randomized padding codec, where every data byte is paired with a random filler byte.
// The output is twice the size of the input plus a short flag prefix, so two runs over the same input with the same key
// will produce different output.
package padded

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
)

const (
	// MinLen is the minimum length of both the text and the key.
	MinLen = 6
	// fillerLimit is the exclusive upper bound of filler values.
	fillerLimit = 128
)

// Flag prefixes randomized output so Decrypt can tell it apart from plain output.
var Flag = []byte("RANDOMIZED")

var (
	ErrTextTooShort = fmt.Errorf("%w: text is too short", xrc.ErrInvalidArgument)
	ErrKeyTooLong   = fmt.Errorf("%w: key is longer than text", xrc.ErrKeyTooLong)
	ErrMalformed    = fmt.Errorf("%w: malformed randomized data", xrc.ErrInvalidArgument)
)

func validate(text, key []byte) error {
	if text == nil || key == nil {
		return fmt.Errorf("%w: text and key are required", xrc.ErrMissingInput)
	}
	if len(key) > len(text) {
		return ErrKeyTooLong
	}
	if len(text) < MinLen {
		return fmt.Errorf("%w: length %d is less than %d", ErrTextTooShort, len(text), MinLen)
	}
	if len(key) < MinLen {
		return fmt.Errorf("%w: length %d is less than %d", xrc.ErrKeyTooShort, len(key), MinLen)
	}
	return nil
}

func validateKey(key []byte) error {
	if key == nil {
		return fmt.Errorf("%w: key is required", xrc.ErrMissingInput)
	}
	if len(key) < MinLen {
		return fmt.Errorf("%w: length %d is less than %d", xrc.ErrKeyTooShort, len(key), MinLen)
	}
	return nil
}

// Encrypt produces Flag followed by a pair of bytes for each byte of text.
// The first byte of a pair is the text byte XORed with the key and a random filler, the second is the filler itself.
func Encrypt(text, key []byte) ([]byte, error) {
	if err := validate(text, key); err != nil {
		return nil, err
	}
	fill := make([]byte, len(text))
	if _, err := rand.Read(fill); err != nil {
		return nil, fmt.Errorf("failed to read random filler: %w", err)
	}
	out := make([]byte, len(Flag), len(Flag)+2*len(text))
	copy(out, Flag)
	for i, b := range text {
		r := fill[i] % fillerLimit
		out = append(out, b^key[i%len(key)]^r, r)
	}
	return out, nil
}

// Decrypt reverses Encrypt when data starts with Flag, and EncryptPlain otherwise.
func Decrypt(data, key []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data is required", xrc.ErrMissingInput)
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	body, randomized := bytes.CutPrefix(data, Flag)
	if !randomized {
		return xorKey(data, key), nil
	}
	if len(body)%2 != 0 {
		return nil, fmt.Errorf("%w: odd body length %d", ErrMalformed, len(body))
	}
	out := make([]byte, len(body)/2)
	for i := range out {
		out[i] = body[2*i] ^ key[i%len(key)] ^ body[2*i+1]
	}
	return out, nil
}

// IsRandomized reports whether data carries the randomized Flag prefix.
func IsRandomized(data []byte) bool {
	return bytes.HasPrefix(data, Flag)
}

// EncryptPlain XORs text with the repeating key without any padding.
func EncryptPlain(text, key []byte) ([]byte, error) {
	if err := validate(text, key); err != nil {
		return nil, err
	}
	return xorKey(text, key), nil
}

// DecryptPlain reverses EncryptPlain.
func DecryptPlain(data, key []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data is required", xrc.ErrMissingInput)
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return xorKey(data, key), nil
}

func xorKey(data, key []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
