// Package record persists run output: per-step metrics as zstd-compressed
// JSON lines and run summaries in a SQLite database.
package record

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLWriter appends JSON documents, one per line, to a zstd-compressed file.
// Writes are serialized; it is safe to share between the step loop and a
// streaming goroutine.
type JSONLWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLWriter creates (or truncates) the file at path. Parent directories
// are created as needed.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &JSONLWriter{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Write marshals v and appends it as one line.
func (jw *JSONLWriter) Write(v any) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := jw.w.Write(b); err != nil {
		return err
	}
	return jw.w.WriteByte('\n')
}

// Close flushes buffered data and closes the underlying file.
func (jw *JSONLWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	var first error
	if err := jw.w.Flush(); err != nil {
		first = err
	}
	if err := jw.enc.Close(); err != nil && first == nil {
		first = err
	}
	if err := jw.f.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
