package xrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable_Bijection(t *testing.T) {
	enc := BuildTable(DirEncode)
	dec := BuildTable(DirDecode)
	require.NoError(t, enc.Validate())
	require.NoError(t, dec.Validate())

	for i := 0; i < 256; i++ {
		assert.Equal(t, byte(i), dec[enc[i]], "Decode table must invert the encode table at %d", i)
		assert.Equal(t, byte(i), enc[dec[i]], "Encode table must invert the decode table at %d", i)
	}
}

func TestBuildTable_Values(t *testing.T) {
	enc := BuildTable(DirEncode)
	assert.Equal(t, []byte{15, 14, 30, 31, 13, 12, 28, 29, 45, 44, 60, 61, 47, 46, 62, 63}, enc[:16])
	assert.Equal(t, byte(0xff), enc[0xff])

	dec := BuildTable(DirDecode)
	assert.Equal(t, []byte{85, 84, 81, 80, 69, 68, 65, 64}, dec[:8])
}

func TestSharedTables(t *testing.T) {
	assert.Same(t, EncodeTable(), EncodeTable(), "Encode table should be built once")
	assert.Same(t, DecodeTable(), DecodeTable(), "Decode table should be built once")
	assert.Same(t, EncodeTable(), TableFor(DirEncode))
	assert.Same(t, DecodeTable(), TableFor(DirDecode))
	assert.Equal(t, *BuildTable(DirEncode), *EncodeTable())
	assert.Equal(t, *BuildTable(DirDecode), *DecodeTable())
}

func TestTable_ValidateNeg(t *testing.T) {
	var table Table
	assert.ErrorContains(t, table.Validate(), "value 0x00 appears more than once (second at index 1)")

	table = *BuildTable(DirEncode)
	table[1] = table[0]
	assert.ErrorContains(t, table.Validate(), "value 0x0f appears more than once (second at index 1)")
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "encode", DirEncode.String())
	assert.Equal(t, "decode", DirDecode.String())
}
