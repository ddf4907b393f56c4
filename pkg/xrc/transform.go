package xrc

// Encode transforms src with the keystream and the Encode table, returning a new slice of the same length.
// The keystream must not be empty.
func Encode(src, keystream []byte, table *Table) []byte {
	out := make([]byte, len(src))
	encodeAt(out, src, keystream, table, 0)
	return out
}

// Decode reverses Encode, given the same keystream and the Decode table.
// The keystream must not be empty.
func Decode(src, keystream []byte, table *Table) []byte {
	out := make([]byte, len(src))
	decodeAt(out, src, keystream, table, 0)
	return out
}

// EncodeInPlace is Encode, writing the result back into buf.
func EncodeInPlace(buf, keystream []byte, table *Table) {
	encodeAt(buf, buf, keystream, table, 0)
}

// DecodeInPlace is Decode, writing the result back into buf.
func DecodeInPlace(buf, keystream []byte, table *Table) {
	decodeAt(buf, buf, keystream, table, 0)
}

// encodeAt writes the encoding of src into dst, where src[0] sits at absolute position pos in the stream.
// pos must be even so pairs stay aligned. dst and src may be the same slice.
func encodeAt(dst, src, keystream []byte, table *Table, pos int) {
	var (
		n    = len(src)
		kLen = len(keystream)
		i    int
	)
	for ; i+1 < n; i += 2 {
		te, to := table[src[i]], table[src[i+1]]
		mask := te>>4 | to&0xF0
		mode := te&0xF | (to&0xF)<<4
		mode ^= mask
		dst[i+1] = mode ^ keystream[(pos+i+1)%kLen]
		dst[i] = mask ^ keystream[(pos+i)%kLen]
	}
	if i < n {
		te := table[src[i]]
		mask := te >> 4
		mode := te&0xF ^ mask
		dst[i] = (mask<<4 | mode) ^ keystream[(pos+i)%kLen]
	}
}

// decodeAt is the inverse of encodeAt, with the same alignment rules.
func decodeAt(dst, src, keystream []byte, table *Table, pos int) {
	var (
		n    = len(src)
		kLen = len(keystream)
		i    int
	)
	for ; i+1 < n; i += 2 {
		mask := src[i] ^ keystream[(pos+i)%kLen]
		mode := src[i+1] ^ keystream[(pos+i+1)%kLen]
		mode ^= mask
		dst[i] = table[(mask&0xF)<<4|mode&0xF]
		mask >>= 4
		mode >>= 4
		dst[i+1] = table[(mask&0xF)<<4|mode&0xF]
	}
	if i < n {
		mask := src[i] ^ keystream[(pos+i)%kLen]
		mode := mask & 0xF
		mask >>= 4
		mode ^= mask
		dst[i] = table[(mask&0xF)<<4|mode&0xF]
	}
}
