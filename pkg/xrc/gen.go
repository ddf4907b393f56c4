package xrc

import (
	"crypto/rand"
	"fmt"
)

// GenKey will generate a random key with the given length, which must be at least DefaultMinKeyLen.
func GenKey(length int) ([]byte, error) {
	if length < DefaultMinKeyLen {
		return nil, fmt.Errorf("%w: asked to generate a %d-length key, need at least %d", ErrKeyTooShort, length, DefaultMinKeyLen)
	}
	buf := make([]byte, length)
	n, err := rand.Read(buf)
	if n < length {
		return nil, fmt.Errorf("failed to read requested bytes: %v", err)
	}
	return buf, nil
}
