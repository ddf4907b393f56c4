// Package transform composes byte transforms into a pipeline, where each stage can be applied and reversed.
// Stages are safe for concurrent use, so a single Processor may be shared by many goroutines.
package transform

import (
	"fmt"

	"github.com/saylorsolutions/xorcryptor/pkg/lite"
	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
)

// Transform is a reversible operation on a byte slice, where Reverse undoes Apply.
type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type noOpTransform struct{}

func NewNoOpTransform() Transform                            { return &noOpTransform{} }
func (n *noOpTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (n *noOpTransform) Reverse(data []byte) ([]byte, error) { return data, nil }

type xrcTransform struct {
	keystream []byte
}

// NewXrcTransform creates a transform that runs the xrc table codec with the cipher's keystream.
// The keystream starts from its first byte for every call.
func NewXrcTransform(cipher *xrc.Cipher) (Transform, error) {
	if cipher == nil {
		return nil, fmt.Errorf("%w: xrc transform requires a cipher", xrc.ErrMissingInput)
	}
	return &xrcTransform{keystream: cipher.Keystream()}, nil
}

func (x *xrcTransform) Apply(data []byte) ([]byte, error) {
	return xrc.Encode(data, x.keystream, xrc.EncodeTable()), nil
}

func (x *xrcTransform) Reverse(data []byte) ([]byte, error) {
	return xrc.Decode(data, x.keystream, xrc.DecodeTable()), nil
}

type liteTransform struct {
	key []byte
}

// NewLiteTransform creates a transform that applies the lite screen, which is its own inverse.
func NewLiteTransform(key []byte) (Transform, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: lite transform requires a key", xrc.ErrMissingInput)
	}
	return &liteTransform{key: append([]byte(nil), key...)}, nil
}

func (l *liteTransform) Apply(data []byte) ([]byte, error) {
	return lite.Screen(data, l.key)
}

func (l *liteTransform) Reverse(data []byte) ([]byte, error) {
	return lite.Screen(data, l.key)
}
