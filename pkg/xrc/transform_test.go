package xrc

import (
	"bytes"
	"encoding/hex"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeystream = DeriveKeystream([]byte("key6#%"))

func TestEncode_Known(t *testing.T) {
	tests := map[string]struct {
		given    string
		expected string
	}{
		"Single byte": {given: "h", expected: "6a"},
		"Odd length":  {given: "abc", expected: "591349"},
		"Even length": {given: "hi!!!!", expected: "6b025bd801ad"},
		"Longer text": {given: "Hello, World!", expected: "4f2279632297196a4802031643"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			encoded := Encode([]byte(tc.given), testKeystream, EncodeTable())
			assert.Equal(t, tc.expected, hex.EncodeToString(encoded))

			decoded := Decode(encoded, testKeystream, DecodeTable())
			assert.Equal(t, tc.given, string(decoded))
		})
	}
}

func TestEncode_Scenario(t *testing.T) {
	key := []byte{107, 101, 121, 54, 33, 35}
	source := []byte{104, 105, 33, 33, 33, 33}
	stream := DeriveKeystream(key)
	require.NotZero(t, stream[0])

	encoded := Encode(source, stream, EncodeTable())
	assert.Len(t, encoded, len(source))
	assert.NotEqual(t, source, encoded)
	assert.Equal(t, source, Decode(encoded, stream, DecodeTable()))
	assert.Equal(t, []byte{104, 105, 33, 33, 33, 33}, source, "Source must not be modified")
}

func TestEncode_RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		key := make([]byte, 1+rng.IntN(24))
		src := make([]byte, 1+rng.IntN(97))
		for j := range key {
			key[j] = byte(rng.UintN(256))
		}
		for j := range src {
			src[j] = byte(rng.UintN(256))
		}
		stream := DeriveKeystream(key)
		encoded := Encode(src, stream, EncodeTable())
		require.Len(t, encoded, len(src))
		decoded := Decode(encoded, stream, DecodeTable())
		require.Equal(t, src, decoded, "Round trip failed for key %x and source %x", key, src)
	}
}

func TestEncodeInPlace(t *testing.T) {
	src := []byte("The quick brown fox jumps over the lazy dog")
	expected := Encode(src, testKeystream, EncodeTable())

	buf := bytes.Clone(src)
	EncodeInPlace(buf, testKeystream, EncodeTable())
	assert.Equal(t, expected, buf)

	DecodeInPlace(buf, testKeystream, DecodeTable())
	assert.Equal(t, src, buf)
}

func TestEncodeAt_Offset(t *testing.T) {
	src := []byte("split across two chunks!")
	whole := Encode(src, testKeystream, EncodeTable())

	var (
		first  = make([]byte, 10)
		second = make([]byte, len(src)-10)
	)
	encodeAt(first, src[:10], testKeystream, EncodeTable(), 0)
	encodeAt(second, src[10:], testKeystream, EncodeTable(), 10)
	assert.Equal(t, whole, append(first, second...))
}
