package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrClosed is returned by Append after the writer has been closed.
var ErrClosed = errors.New("record: writer is closed")

// Writer appends telemetry rows to a timestamped CSV file. Every row is
// flushed to the OS immediately, so an Append is bounded by one small
// buffered write and never stalls the sampler.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	csv    *csv.Writer
	path   string
	closed bool
}

// Open creates dir if needed, derives a timestamped filename inside it,
// and writes the header row for the given joints.
func Open(dir string, joints []string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	name := fmt.Sprintf("operation_log_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	w := &Writer{
		file: file,
		csv:  csv.NewWriter(file),
		path: path,
	}

	w.csv.Write(Header(joints))
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return w, nil
}

// Path returns the full path of the log file.
func (w *Writer) Path() string {
	return w.path
}

// Append formats and writes one row.
func (w *Writer) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	w.csv.Write(rec.Row())
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and releases the file. Subsequent calls are no-ops.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
