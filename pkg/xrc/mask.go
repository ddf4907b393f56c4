package xrc

import "math/bits"

// DeriveMask converts a raw key byte into its keystream byte.
// The population count of v is packed into the low nibble and its complement (8 - count) into the high nibble,
// that value is XORed with its nibble-swapped self, and the result is XORed with v.
func DeriveMask(v byte) byte {
	count := byte(bits.OnesCount8(v))
	mask := count | (8-count)<<4
	mask ^= mask>>4 | mask<<4
	return mask ^ v
}

// DeriveKeystream applies DeriveMask to every byte of the key, preserving order and length.
func DeriveKeystream(key []byte) []byte {
	stream := make([]byte, len(key))
	for i, k := range key {
		stream[i] = DeriveMask(k)
	}
	return stream
}
