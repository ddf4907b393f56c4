package job

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/saylorsolutions/xorcryptor/pkg/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("key6#%")

func TestRunner_RoundTrip(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "data.txt")
	content := bytes.Repeat([]byte("Some file content. "), 1000)
	require.NoError(t, os.WriteFile(src, content, 0640))

	var logs bytes.Buffer
	enc := &Runner{
		Key:     testKey,
		Encrypt: true,
		Options: []container.Opt{container.WithChunkSize(1024), container.WithCompression(container.CompressionZstd)},
		Log:     zerolog.New(&logs),
	}
	summary, err := enc.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Bytes: int64(len(content))}, summary)
	assert.NoFileExists(t, src, "Source must be removed without Preserve")
	assert.FileExists(t, src+Ext)
	assert.Contains(t, logs.String(), "[Encrypt] "+src+" to "+src+Ext)

	info, err := os.Stat(src + Ext)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	encSize := info.Size()

	dec := &Runner{
		Key:      testKey,
		Preserve: true,
		Log:      zerolog.New(&logs),
	}
	summary, err = dec.Run(context.Background(), []string{src + Ext})
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Bytes: encSize}, summary)
	assert.FileExists(t, src+Ext, "Source must be kept with Preserve")

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestRunner_WrongKey(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "data.txt")
	require.NoError(t, os.WriteFile(src, []byte("secret data"), 0600))

	enc := &Runner{Key: testKey, Encrypt: true, Log: zerolog.Nop()}
	_, err := enc.Run(context.Background(), []string{src})
	require.NoError(t, err)

	dec := &Runner{Key: []byte("wrong key"), Log: zerolog.Nop()}
	summary, err := dec.Run(context.Background(), []string{src + Ext})
	assert.ErrorIs(t, err, container.ErrSignatureMismatch)
	assert.Equal(t, Summary{Failed: 1}, summary)
	assert.NoFileExists(t, src)
	assert.FileExists(t, src+Ext, "Source must be kept when processing fails")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "No temporary files may be left behind")
}

func TestRunner_SkipsEmpty(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty.txt")
	full := filepath.Join(root, "full.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	require.NoError(t, os.WriteFile(full, []byte("content"), 0600))

	r := &Runner{Key: testKey, Encrypt: true, Log: zerolog.Nop()}
	summary, err := r.Run(context.Background(), []string{empty, full, filepath.Join(root, "missing.txt")})
	assert.Error(t, err)
	assert.Equal(t, Summary{Processed: 1, Skipped: 1, Failed: 1, Bytes: 7}, summary)
	assert.FileExists(t, empty)
	assert.NoFileExists(t, empty+Ext)
	assert.FileExists(t, full+Ext)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Key: testKey, Encrypt: true, Log: zerolog.Nop()}
	summary, err := r.Run(ctx, []string{"anything"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{}, summary)
}

func TestRunner_Throughput(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "data.bin")
	content := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 5000)
	require.NoError(t, os.WriteFile(src, content, 0600))

	var logs bytes.Buffer
	r := &Runner{
		Key:     testKey,
		Encrypt: true,
		Options: []container.Opt{container.WithChunkSize(1000), container.WithJobs(2)},
		Log:     zerolog.New(&logs).Level(zerolog.DebugLevel),
	}
	_, err := r.Run(context.Background(), []string{src})
	require.NoError(t, err)

	var (
		lastDone int64
		finished map[string]any
	)
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if done, ok := entry["done"].(float64); ok {
			assert.Equal(t, float64(len(content)), entry["total"])
			lastDone = int64(done)
		}
		if entry["level"] == "info" {
			finished = entry
		}
	}
	assert.Equal(t, int64(len(content)), lastDone, "Progress must reach the size of the source")
	require.NotNil(t, finished)
	assert.Equal(t, float64(len(content)), finished["bytes"])
	assert.Contains(t, finished, "elapsed")
	assert.Contains(t, finished, "mbps")
	assert.Contains(t, finished["message"], "MB/s")
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 2.0, throughput(4_000_000, 2*time.Second), 1e-9)
	assert.Zero(t, throughput(100, 0))
}
