package xrc

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	data := "A string with some text"
	key := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	var output strings.Builder

	out, err := NewWriter(&output, key)
	require.NoError(t, err)
	n, err := io.Copy(out, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	require.NoError(t, out.Close())

	c, err := NewCipher(key)
	require.NoError(t, err)
	expected, err := c.EncryptString(data)
	require.NoError(t, err)
	assert.Equal(t, string(expected), output.String())

	in, err := NewReader(strings.NewReader(output.String()), key)
	require.NoError(t, err)
	decoded, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, data, string(decoded))
}

func TestWriter_Splits(t *testing.T) {
	key := []byte("key6#%")
	data := []byte("The quick brown fox jumps over the lazy dog.")
	c, err := NewCipher(key)
	require.NoError(t, err)
	expected, err := c.Encrypt(data)
	require.NoError(t, err)

	for _, size := range []int{1, 2, 3, 5, 7, 16, len(data)} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, key)
		require.NoError(t, err)
		for i := 0; i < len(data); i += size {
			end := min(i+size, len(data))
			n, err := w.Write(data[i:end])
			require.NoError(t, err)
			assert.Equal(t, end-i, n)
		}
		require.NoError(t, w.Close())
		assert.Equal(t, expected, buf.Bytes(), "Write size %d", size)
	}
}

func TestReader_OneByteReads(t *testing.T) {
	key := []byte("key6#%")
	c, err := NewCipher(key)
	require.NoError(t, err)
	for _, text := range []string{"h", "hi", "odd", "hi!!!!", "Hello, World!"} {
		encoded, err := c.EncryptString(text)
		require.NoError(t, err)

		r, err := NewReader(iotest.OneByteReader(bytes.NewReader(encoded)), key)
		require.NoError(t, err)
		decoded, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, text, string(decoded))
	}
}

func TestReader_DataErr(t *testing.T) {
	key := []byte("key6#%")
	c, err := NewCipher(key)
	require.NoError(t, err)
	encoded, err := c.EncryptString("abc")
	require.NoError(t, err)

	r, err := NewReader(iotest.DataErrReader(bytes.NewReader(encoded)), key)
	require.NoError(t, err)
	decoded, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(decoded))
}

func TestReader_Error(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewReader(iotest.ErrReader(boom), []byte("key6#%"))
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	assert.ErrorIs(t, err, boom)
}

func TestWriter_Reset(t *testing.T) {
	var (
		outA bytes.Buffer
		outB bytes.Buffer
		in   = []byte{0x0, 0x1, 0x2}
		key  = []byte("key6#%")
	)
	w, err := NewWriter(&outA, key)
	require.NoError(t, err)
	n, err := w.Write(in)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, w.Close())
	assert.Len(t, outA.Bytes(), 3)

	_, err = w.Write(in)
	assert.ErrorIs(t, err, ErrWriterClosed)

	w.Reset(&outB)
	n, err = w.Write(in)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, w.Close())
	assert.Equal(t, outA.Bytes(), outB.Bytes())
}

func TestReader_Reset(t *testing.T) {
	var (
		key  = []byte("key6#%")
		outA = make([]byte, 3)
		outB = make([]byte, 3)
	)
	c, err := NewCipher(key)
	require.NoError(t, err)
	in, err := c.Encrypt([]byte{0x0, 0x1, 0x2})
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(in), key)
	require.NoError(t, err)
	_, err = io.ReadFull(r, outA)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x0, 0x1, 0x2}, outA)

	r.Reset(bytes.NewReader(in))
	_, err = io.ReadFull(r, outB)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x0, 0x1, 0x2}, outB)
}

func TestNewReaderWriter_Neg(t *testing.T) {
	_, err := NewReader(nil, nil)
	assert.ErrorIs(t, err, ErrMissingInput)
	_, err = NewWriter(nil, []byte("short"))
	assert.ErrorIs(t, err, ErrKeyTooShort)
}

type failingWriter struct {
	writes int
	failAt int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	if f.writes >= f.failAt {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func TestWriter_TargetError(t *testing.T) {
	target := &failingWriter{failAt: 2}
	w, err := NewWriter(target, []byte("key6#%"))
	require.NoError(t, err)

	n, err := w.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = w.Write([]byte("efgh"))
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 0, n)

	_, err = w.Write([]byte("ijkl"))
	assert.EqualError(t, err, "disk full", "A failed writer must not keep encoding at an unknown position")
	assert.Equal(t, 2, target.writes, "The target must not be written to again after a failure")
	assert.EqualError(t, w.Close(), "disk full")

	var buf bytes.Buffer
	w.Reset(&buf)
	n, err = w.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, w.Close())
	c, err := NewCipher([]byte("key6#%"))
	require.NoError(t, err)
	expected, err := c.EncryptString("abcd")
	require.NoError(t, err)
	assert.Equal(t, expected, buf.Bytes())
}
