package xrc

import (
	"errors"
	"io"
)

const minReadSize = 512

var ErrWriterClosed = errors.New("xrc writer is closed")

// Reader extends io.Reader, but also provides a way to reuse a key with a different source.
type Reader interface {
	io.Reader
	// Reset will use the provided io.Reader and reset the position within the stream to the beginning.
	Reset(source io.Reader)
}

// Writer extends io.WriteCloser, but also provides a way to reuse a key with a different target.
// Close must be called to emit a trailing unpaired byte. It does not close the underlying io.Writer.
// Once a write to the target fails, every later Write and Close returns that error until Reset is called.
type Writer interface {
	io.WriteCloser
	// Reset will use the provided io.Writer and reset the position within the stream to the beginning.
	Reset(target io.Writer)
}

var _ Reader = (*reader)(nil)

type reader struct {
	source    io.Reader
	keystream []byte
	pos       int
	held      []byte
	decoded   []byte
	eof       bool
	err       error
}

// NewReader constructs a new Reader that decodes everything read from r with the given key.
// The result is the same as calling Cipher.Decrypt on the whole stream.
func NewReader(r io.Reader, key []byte, opts ...CipherOpt) (Reader, error) {
	c, err := NewCipher(key, opts...)
	if err != nil {
		return nil, err
	}
	return &reader{
		source:    r,
		keystream: c.keystream,
	}, nil
}

func (r *reader) Read(out []byte) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}
	for len(r.decoded) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if r.eof {
			if len(r.held) == 0 {
				return 0, io.EOF
			}
			r.decode(r.held)
			r.held = r.held[:0]
			continue
		}
		r.fill(len(out))
	}
	n := copy(out, r.decoded)
	r.decoded = r.decoded[n:]
	return n, nil
}

// fill reads more input, decoding every complete pair and holding back a single odd byte.
func (r *reader) fill(want int) {
	chunk := make([]byte, len(r.held)+max(want, minReadSize))
	copy(chunk, r.held)
	n, err := r.source.Read(chunk[len(r.held):])
	data := chunk[:len(r.held)+n]
	even := len(data) &^ 1
	r.decode(data[:even])
	r.held = append(r.held[:0], data[even:]...)
	switch {
	case errors.Is(err, io.EOF):
		r.eof = true
	case err != nil:
		r.err = err
	}
}

func (r *reader) decode(data []byte) {
	if len(data) == 0 {
		return
	}
	dec := make([]byte, len(data))
	decodeAt(dec, data, r.keystream, DecodeTable(), r.pos)
	r.pos += len(data)
	r.decoded = append(r.decoded, dec...)
}

func (r *reader) Reset(source io.Reader) {
	r.source = source
	r.pos = 0
	r.held = r.held[:0]
	r.decoded = nil
	r.eof = false
	r.err = nil
}

var _ Writer = (*writer)(nil)

type writer struct {
	target    io.Writer
	keystream []byte
	pos       int
	pending   []byte
	closed    bool
	// err is the first error returned by target, after which the stream position is unknown.
	err error
}

// NewWriter constructs a new Writer that encodes all bytes written with the given key before passing them to target.
// The result is the same as calling Cipher.Encrypt on everything written, once Close is called.
func NewWriter(target io.Writer, key []byte, opts ...CipherOpt) (Writer, error) {
	c, err := NewCipher(key, opts...)
	if err != nil {
		return nil, err
	}
	return &writer{
		target:    target,
		keystream: c.keystream,
	}, nil
}

func (w *writer) Write(in []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	buf := make([]byte, 0, len(w.pending)+len(in))
	buf = append(buf, w.pending...)
	buf = append(buf, in...)
	even := len(buf) &^ 1
	w.pending = append(w.pending[:0], buf[even:]...)
	if even == 0 {
		return len(in), nil
	}
	encodeAt(buf[:even], buf[:even], w.keystream, EncodeTable(), w.pos)
	w.pos += even
	if _, err := w.target.Write(buf[:even]); err != nil {
		w.err = err
		return 0, err
	}
	return len(in), nil
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}
	if len(w.pending) == 0 {
		return nil
	}
	last := make([]byte, 1)
	encodeAt(last, w.pending, w.keystream, EncodeTable(), w.pos)
	w.pos++
	w.pending = w.pending[:0]
	if _, err := w.target.Write(last); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *writer) Reset(target io.Writer) {
	w.target = target
	w.pos = 0
	w.pending = w.pending[:0]
	w.closed = false
	w.err = nil
}
