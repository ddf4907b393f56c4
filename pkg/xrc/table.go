package xrc

import (
	"fmt"
	"sync"
)

// Direction selects which form of the substitution table to build.
type Direction bool

const (
	DirEncode Direction = true
	DirDecode Direction = false
)

func (d Direction) String() string {
	if d == DirEncode {
		return "encode"
	}
	return "decode"
}

// Table is a bijective byte substitution table.
type Table [256]byte

// BuildTable builds the forward (DirEncode) or inverse (DirDecode) substitution table.
// The table never depends on key material, so EncodeTable and DecodeTable should be preferred over calling this directly.
func BuildTable(dir Direction) *Table {
	var table Table
	for i := 0; i < 256; i++ {
		packed := substitute(byte(i))
		if dir == DirEncode {
			table[i] = packed
		} else {
			table[packed] = byte(i)
		}
	}
	return &table
}

// substitute examines the four 2-bit groups of v, lowest first.
// A group with its high bit set marks the corresponding bit in the high nibble,
// and a group with both bits equal marks the corresponding bit in the low nibble.
func substitute(v byte) byte {
	var maskBits, modeBits byte
	for shift := 0; shift < 4; shift++ {
		group := v & 3
		if group > 1 {
			maskBits |= 1 << shift
		}
		if group == 0 || group == 3 {
			modeBits |= 1 << shift
		}
		v >>= 2
	}
	return maskBits<<4 | modeBits
}

var (
	encodeTable = sync.OnceValue(func() *Table { return BuildTable(DirEncode) })
	decodeTable = sync.OnceValue(func() *Table { return BuildTable(DirDecode) })
)

// EncodeTable returns the process-wide forward table.
// The returned table is shared and must not be modified.
func EncodeTable() *Table {
	return encodeTable()
}

// DecodeTable returns the process-wide inverse table.
// The returned table is shared and must not be modified.
func DecodeTable() *Table {
	return decodeTable()
}

// TableFor returns the shared table for the given direction.
func TableFor(dir Direction) *Table {
	if dir == DirEncode {
		return EncodeTable()
	}
	return DecodeTable()
}

// Validate reports an error if the table is not a bijection.
func (t *Table) Validate() error {
	var seen [256]bool
	for i, v := range t {
		if seen[v] {
			return fmt.Errorf("value 0x%02x appears more than once (second at index %d)", v, i)
		}
		seen[v] = true
	}
	return nil
}
