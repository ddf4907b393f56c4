package container

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"
)

const (
	// DefaultChunkSize is the default number of plaintext bytes in each frame.
	DefaultChunkSize = 64 << 20
)

var (
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidOption    = errors.New("invalid option")
)

type config struct {
	chunkSize   int
	jobs        int
	mode        Mode
	compression Compression
	log         zerolog.Logger
	progress    ProgressFunc
	total       int64
}

type Opt = func(*config) error

// WithChunkSize sets the number of plaintext bytes in each frame. It must be even and greater than 0.
// This only affects Encrypt, since Decrypt uses the chunk size from the header.
func WithChunkSize(size int) Opt {
	return func(c *config) error {
		if err := ValidateChunkSize(int64(size)); err != nil {
			return err
		}
		c.chunkSize = size
		return nil
	}
}

// WithJobs sets how many chunks are processed in parallel. Defaults to runtime.NumCPU().
func WithJobs(jobs int) Opt {
	return func(c *config) error {
		if jobs < 1 {
			return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidOption, jobs)
		}
		c.jobs = jobs
		return nil
	}
}

// WithMode sets the codec used by Encrypt.
func WithMode(mode Mode) Opt {
	return func(c *config) error {
		if mode > ModeLite {
			return fmt.Errorf("%w: unknown mode %s", ErrInvalidOption, mode)
		}
		c.mode = mode
		return nil
	}
}

// WithCompression sets the compression used by Encrypt.
func WithCompression(compression Compression) Opt {
	return func(c *config) error {
		if compression > CompressionZstd {
			return fmt.Errorf("%w: unknown compression %s", ErrInvalidOption, compression)
		}
		c.compression = compression
		return nil
	}
}

// WithLogger sets the logger used to report progress. Nothing is logged by default.
func WithLogger(log zerolog.Logger) Opt {
	return func(c *config) error {
		c.log = log
		return nil
	}
}

// ProgressFunc receives the number of bytes read from the source so far, and the total passed to WithProgress.
type ProgressFunc = func(done, total int64)

// WithProgress sets a function that's called after each batch of chunks, and once more when the source is exhausted.
// The total is only passed through to fn, and may be 0 if the size of the source isn't known.
// For Decrypt, the count includes the header and frame lengths, so it matches the size of the container.
func WithProgress(total int64, fn ProgressFunc) Opt {
	return func(c *config) error {
		if fn == nil {
			return fmt.Errorf("%w: progress function is nil", ErrInvalidOption)
		}
		if total < 0 {
			return fmt.Errorf("%w: progress total must not be negative, got %d", ErrInvalidOption, total)
		}
		c.progress = fn
		c.total = total
		return nil
	}
}

func newConfig(opts ...Opt) (*config, error) {
	c := &config{
		chunkSize: DefaultChunkSize,
		jobs:      runtime.NumCPU(),
		mode:      ModeTable,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ValidateChunkSize reports whether size can be used as a container chunk size.
func ValidateChunkSize(size int64) error {
	switch {
	case size <= 0:
		return fmt.Errorf("%w: %d must be greater than 0", ErrInvalidChunkSize, size)
	case size%2 != 0:
		return fmt.Errorf("%w: %d must be even", ErrInvalidChunkSize, size)
	case size > math.MaxUint32:
		return fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidChunkSize, size, uint32(math.MaxUint32))
	}
	return nil
}
