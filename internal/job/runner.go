package job

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/saylorsolutions/xorcryptor/pkg/container"
)

const bufferSize = 1 << 20

// Runner encrypts or decrypts files into containers.
type Runner struct {
	Key      []byte
	Encrypt  bool
	Preserve bool
	// Options are passed to every container operation.
	Options []container.Opt
	Log     zerolog.Logger
}

// Summary tallies the outcome of Runner.Run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	// Bytes is the total size of the processed source files.
	Bytes int64
}

type result struct {
	dest    string
	skipped bool
	size    int64
	elapsed time.Duration
}

// throughput returns the rate of n bytes over d in MB/s.
func throughput(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / 1e6 / d.Seconds()
}

func (r *Runner) op() string {
	if r.Encrypt {
		return "Encrypt"
	}
	return "Decrypt"
}

// Run processes each file in turn. A file that fails is logged and doesn't stop the others.
// The returned error joins every failure, or is the context error if ctx is done.
func (r *Runner) Run(ctx context.Context, files []string) (Summary, error) {
	var (
		summary Summary
		errs    []error
	)
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := r.process(ctx, src)
		switch {
		case err != nil:
			summary.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			r.Log.Error().Err(err).Str("src", src).Msgf("Error: %s", src)
		case res.skipped:
			summary.Skipped++
			r.Log.Warn().Str("src", src).Msg("Skipping empty file")
		default:
			summary.Processed++
			summary.Bytes += res.size
			speed := throughput(res.size, res.elapsed)
			r.Log.Info().
				Str("src", src).
				Str("dest", res.dest).
				Int64("bytes", res.size).
				Dur("elapsed", res.elapsed).
				Float64("mbps", speed).
				Msgf("[%s] %s to %s: %d bytes in %d [ms] - %.2f MB/s", r.op(), src, res.dest, res.size, res.elapsed.Milliseconds(), speed)
		}
	}
	return summary, errors.Join(errs...)
}

func (r *Runner) process(ctx context.Context, src string) (res result, err error) {
	start := time.Now()
	dest, err := DestPath(src, r.Encrypt)
	if err != nil {
		return res, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return res, err
	}
	if info.Size() == 0 {
		return result{dest: dest, skipped: true}, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return res, err
	}
	defer func() {
		_ = in.Close()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return res, fmt.Errorf("failed to create destination: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = r.copy(ctx, tmp, in, src, info.Size()); err != nil {
		return res, err
	}
	if err = tmp.Close(); err != nil {
		return res, err
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return res, err
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return res, fmt.Errorf("failed to move result into place: %w", err)
	}
	if !r.Preserve {
		if rmErr := os.Remove(src); rmErr != nil {
			r.Log.Warn().Err(rmErr).Str("src", src).Msg("Failed to remove source file")
		}
	}
	return result{dest: dest, size: info.Size(), elapsed: time.Since(start)}, nil
}

func (r *Runner) copy(ctx context.Context, dst io.Writer, src io.Reader, name string, size int64) error {
	out := bufio.NewWriterSize(dst, bufferSize)
	in := bufio.NewReaderSize(src, bufferSize)
	progress := func(done, total int64) {
		r.Log.Debug().Str("src", name).Int64("done", done).Int64("total", total).Msgf("%s: %d of %d bytes", name, done, total)
	}
	opts := append([]container.Opt{container.WithLogger(r.Log), container.WithProgress(size, progress)}, r.Options...)
	var err error
	if r.Encrypt {
		err = container.Encrypt(ctx, out, in, r.Key, opts...)
	} else {
		err = container.Decrypt(ctx, out, in, r.Key, opts...)
	}
	if err != nil {
		return err
	}
	return out.Flush()
}
