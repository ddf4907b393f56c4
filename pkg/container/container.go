package container

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/saylorsolutions/xorcryptor/pkg/transform"
	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
	"golang.org/x/sync/errgroup"
)

const frameLenSize = 4

var ErrInvalidFrame = errors.New("invalid frame")

// Encrypt reads all of src and writes it to dst as a container.
func Encrypt(ctx context.Context, dst io.Writer, src io.Reader, key []byte, opts ...Opt) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	cipher, err := xrc.NewCipher(key)
	if err != nil {
		return err
	}
	counted := &countingReader{r: src}
	proc, err := newProcessor(cipher, cfg.mode, cfg.compression)
	if err != nil {
		return err
	}
	h, err := newHeader(cfg.mode, cfg.compression, uint32(cfg.chunkSize), cipher.Keystream(), cipher.Key())
	if err != nil {
		return err
	}
	if err := h.write(dst); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	cfg.log.Debug().
		Stringer("mode", cfg.mode).
		Stringer("compression", cfg.compression).
		Int("chunkSize", cfg.chunkSize).
		Int("jobs", cfg.jobs).
		Msg("Writing container")

	p := &pipeline{
		cfg:   cfg,
		src:   counted,
		read:  plainChunks(counted, cfg.chunkSize),
		work:  proc.Apply,
		write: writeFrame,
	}
	if err := p.run(ctx, dst); err != nil {
		return err
	}
	if err := writeFrame(dst, nil); err != nil {
		return fmt.Errorf("failed to write end frame: %w", err)
	}
	return nil
}

// writeFrame writes data with its length prefix. An empty frame marks the end of the container.
func writeFrame(dst io.Writer, data []byte) error {
	var frameLen [frameLenSize]byte
	binary.BigEndian.PutUint32(frameLen[:], uint32(len(data)))
	if _, err := dst.Write(frameLen[:]); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := dst.Write(data)
	return err
}

// Decrypt reads a container from src and writes the original data to dst.
// A key that doesn't match the header signature results in ErrSignatureMismatch before anything is written to dst.
// The chunk size, mode, and compression are all read from the header, so only WithJobs and WithLogger have an effect.
func Decrypt(ctx context.Context, dst io.Writer, src io.Reader, key []byte, opts ...Opt) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}
	cipher, err := xrc.NewCipher(key)
	if err != nil {
		return err
	}
	counted := &countingReader{r: src}
	h, err := ReadHeader(counted)
	if err != nil {
		return err
	}
	if err := h.verify(cipher.Keystream(), cipher.Key()); err != nil {
		return err
	}
	proc, err := newProcessor(cipher, h.Mode, h.Compression)
	if err != nil {
		return err
	}
	cfg.log.Debug().
		Stringer("mode", h.Mode).
		Stringer("compression", h.Compression).
		Uint32("chunkSize", h.ChunkSize).
		Int("jobs", cfg.jobs).
		Msg("Reading container")

	p := &pipeline{
		cfg:  cfg,
		src:  counted,
		read: frames(counted, maxFrameLen(h.ChunkSize)),
		work: func(data []byte) ([]byte, error) {
			out, err := proc.Reverse(data)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
			}
			if len(out) > int(h.ChunkSize) {
				return nil, fmt.Errorf("%w: decoded %d bytes, more than the chunk size %d", ErrInvalidFrame, len(out), h.ChunkSize)
			}
			return out, nil
		},
		write: func(dst io.Writer, data []byte) error {
			_, err := dst.Write(data)
			return err
		},
	}
	return p.run(ctx, dst)
}

func newProcessor(cipher *xrc.Cipher, mode Mode, compression Compression) (*transform.Processor, error) {
	var stages []transform.Transform
	switch compression {
	case CompressionNone:
	case CompressionGzip:
		stages = append(stages, transform.NewGzipTransform())
	case CompressionZstd:
		zt, err := transform.NewZstdTransform(zstd.SpeedDefault)
		if err != nil {
			return nil, err
		}
		stages = append(stages, zt)
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrInvalidOption, compression)
	}

	var (
		codec transform.Transform
		err   error
	)
	switch mode {
	case ModeTable:
		codec, err = transform.NewXrcTransform(cipher)
	case ModeLite:
		codec, err = transform.NewLiteTransform(cipher.Key())
	default:
		err = fmt.Errorf("%w: unknown mode %s", ErrInvalidOption, mode)
	}
	if err != nil {
		return nil, err
	}
	return transform.NewProcessor(append(stages, codec)...)
}

// maxFrameLen bounds the payload of a single frame, allowing for compression overhead on incompressible data.
func maxFrameLen(chunkSize uint32) uint64 {
	return uint64(chunkSize) + uint64(chunkSize)/8 + 4096
}

// chunkSource returns the next chunk of input, or io.EOF when there are no more.
type chunkSource = func() ([]byte, error)

func plainChunks(src io.Reader, size int) chunkSource {
	return func() ([]byte, error) {
		buf := make([]byte, size)
		n, err := io.ReadFull(src, buf)
		switch {
		case err == nil:
			return buf, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return buf[:n], nil
		default:
			return nil, err
		}
	}
}

// frames reads frames until the end frame. Running out of input before the end frame is an error, since that means the container was truncated.
func frames(src io.Reader, limit uint64) chunkSource {
	var ended bool
	return func() ([]byte, error) {
		if ended {
			return nil, io.EOF
		}
		var frameLen [frameLenSize]byte
		if _, err := io.ReadFull(src, frameLen[:]); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil, fmt.Errorf("%w: missing end frame: %w", ErrInvalidFrame, io.ErrUnexpectedEOF)
			case errors.Is(err, io.ErrUnexpectedEOF):
				return nil, fmt.Errorf("%w: truncated frame length: %w", ErrInvalidFrame, err)
			}
			return nil, err
		}
		n := binary.BigEndian.Uint32(frameLen[:])
		if n == 0 {
			ended = true
			var extra [1]byte
			_, err := io.ReadFull(src, extra[:])
			switch {
			case err == nil:
				return nil, fmt.Errorf("%w: unexpected data after the end frame", ErrInvalidFrame)
			case errors.Is(err, io.EOF):
				return nil, io.EOF
			default:
				return nil, err
			}
		}
		if uint64(n) > limit {
			return nil, fmt.Errorf("%w: frame length %d exceeds limit %d", ErrInvalidFrame, n, limit)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(src, buf); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("%w: truncated frame payload: %w", ErrInvalidFrame, err)
		}
		return buf, nil
	}
}

type pipeline struct {
	cfg   *config
	src   *countingReader
	read  chunkSource
	work  func([]byte) ([]byte, error)
	write func(io.Writer, []byte) error
}

// run reads up to cfg.jobs chunks at a time, processes them concurrently, and writes the results in order.
func (p *pipeline) run(ctx context.Context, dst io.Writer) error {
	var (
		batch   = make([][]byte, 0, p.cfg.jobs)
		chunks  int
		written int64
		done    bool
	)
	for !done {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = batch[:0]
		for len(batch) < p.cfg.jobs {
			chunk, err := p.read()
			if errors.Is(err, io.EOF) {
				done = true
				break
			}
			if err != nil {
				return err
			}
			if len(chunk) == 0 {
				continue
			}
			batch = append(batch, chunk)
		}
		if len(batch) == 0 {
			break
		}

		results := make([][]byte, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, chunk := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := p.work(chunk)
				if err != nil {
					return fmt.Errorf("chunk %d: %w", chunks+i, err)
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, out := range results {
			if err := p.write(dst, out); err != nil {
				return fmt.Errorf("failed to write chunk %d: %w", chunks, err)
			}
			chunks++
			written += int64(len(out))
		}
		p.cfg.log.Debug().Int("chunks", chunks).Int64("read", p.src.n).Int64("written", written).Msg("Batch complete")
		p.progress()
	}
	p.cfg.log.Debug().Int("chunks", chunks).Int64("read", p.src.n).Int64("written", written).Msg("Done")
	p.progress()
	return nil
}

func (p *pipeline) progress() {
	if p.cfg.progress != nil {
		p.cfg.progress(p.src.n, p.cfg.total)
	}
}

// countingReader tracks how many bytes have been read from r.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
