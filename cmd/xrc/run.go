package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/saylorsolutions/xorcryptor/cmd/internal"
	"github.com/saylorsolutions/xorcryptor/internal/config"
	"github.com/saylorsolutions/xorcryptor/internal/job"
	"github.com/saylorsolutions/xorcryptor/internal/logging"
	"github.com/saylorsolutions/xorcryptor/pkg/container"
	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
	flag "github.com/spf13/pflag"
)

var errUsage = errors.New("usage error")

func newFlags() *flag.FlagSet {
	flags := flag.NewFlagSet("xrc", flag.ContinueOnError)
	flags.BoolP("help", "h", false, "Prints this usage information.")
	flags.BoolP("encrypt", "e", false, "Encrypt the given files.")
	flags.BoolP("decrypt", "d", false, "Decrypt the given files.")
	flags.BoolP("preserve", "p", false, "Keep source files instead of removing them once they're processed.")
	flags.BoolP("recursive", "r", false, "Search directories recursively.")
	flags.BoolP("lite", "l", false, "Encrypt with the lite transform, which skips the substitution table.")
	flags.IntP("jobs", "j", 0, "Number of chunks to process in parallel. Defaults to the number of CPUs.")
	flags.StringP("compress", "c", container.CompressionNone.String(), "Compress data before encrypting, one of none, gzip, or zstd.")
	flags.Int("chunk-size", container.DefaultChunkSize, "Number of bytes in each chunk, must be even.")
	flags.StringP("key", "k", "", "The key to use. If not set, XRC_KEY is used, then the key is prompted for.")
	flags.String("config", "", "Path to a config file. Defaults to xrc.yaml in the working directory or $HOME/.xrc.")
	flags.String("log-file", logging.DefaultLogFile, "File that a record of processed files is appended to. Set to an empty string to disable.")
	flags.String("log-level", "info", "Console log level, one of debug, info, warn, or error.")
	flags.BoolP("version", "v", false, "Prints the version and exits.")
	flags.Int("gen-key", 0, "Print a random hex encoded key of the given length and exit.")
	flags.Lookup("jobs").DefValue = "NumCPU"
	return flags
}

func usage(w io.Writer, flags *flag.FlagSet) {
	internal.Fecho(w, `
xrc encrypts and decrypts files with the xrc transform.
Encrypted files are given the %s extension, and the originals are removed unless -p is given.

USAGE:  xrc (-e|-d) [FLAGS] PATH...

ARGS:
    PATH is a file or directory to process. Directories are only searched recursively with -r.

FLAGS:
%s
SECURITY:
    This is obfuscation, not encryption. Don't rely on it to protect sensitive data.
`, job.Ext, flags.FlagUsages())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := newFlags()
	flags.SetOutput(stderr)
	flags.Usage = func() { usage(stderr, flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if help, _ := flags.GetBool("help"); help || len(args) == 0 {
		usage(stdout, flags)
		return nil
	}
	if v, _ := flags.GetBool("version"); v {
		internal.Fecho(stdout, "xrc %s", version)
		return nil
	}
	if n, _ := flags.GetInt("gen-key"); n != 0 {
		key, err := xrc.GenKey(n)
		if err != nil {
			return err
		}
		internal.Fecho(stdout, "%s", hex.EncodeToString(key))
		return nil
	}

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(flags, configFile)
	if err != nil {
		return err
	}
	if !cfg.Encrypt && !cfg.Decrypt {
		usage(stderr, flags)
		return fmt.Errorf("%w: one of -e or -d is required", errUsage)
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("%w: at least one PATH is required", errUsage)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, err := logging.New(stderr, level, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Close()
	}()

	files, err := job.Collect(flags.Args(), cfg.Recursive, cfg.Encrypt)
	if err != nil {
		log.Warn().Err(err).Msg("Some paths could not be read")
	}
	if len(files) == 0 {
		return errors.New("no files to process")
	}

	key := []byte(cfg.Key)
	if len(key) == 0 {
		key, err = internal.PromptKey(stderr, cfg.Encrypt)
		if err != nil {
			return fmt.Errorf("unable to read key: %w", err)
		}
	}
	if _, err := xrc.NewCipher(key); err != nil {
		return err
	}

	runner := &job.Runner{
		Key:      key,
		Encrypt:  cfg.Encrypt,
		Preserve: cfg.Preserve,
		Options: []container.Opt{
			container.WithJobs(cfg.Jobs),
			container.WithChunkSize(cfg.ChunkSize),
			container.WithMode(cfg.Mode()),
			container.WithCompression(cfg.Compression()),
		},
		Log: log.Logger,
	}
	summary, err := runner.Run(ctx, files)
	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int64("bytes", summary.Bytes).
		Msg("Done")
	switch {
	case err == nil:
		return nil
	case summary.Failed == 0:
		return err
	default:
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(files))
	}
}
