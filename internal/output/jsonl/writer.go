// internal/output/jsonl/writer.go
// Package jsonl implements asynchronous JSON-lines export. Write hands the
// record to a buffered channel; encoding and file I/O happen on a background
// goroutine so the detection path never blocks on disk.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 256

var (
	// ErrClosed indicates the writer has been closed
	ErrClosed = errors.New("jsonl writer is closed")
)

type opType int

const (
	opWrite opType = iota
	opFlush
)

type op struct {
	typ  opType
	val  any
	done chan error
}

// Writer appends one JSON document per line to a file.
type Writer struct {
	path string
	ch   chan op

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	sendMu    sync.Mutex
	wg        sync.WaitGroup
}

// NewWriter opens (or creates) the output file in append mode and starts
// the background writer. bufferSize is the channel capacity; <= 0 selects
// the default.
func NewWriter(path string, bufferSize int) (*Writer, error) {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}

	w := &Writer{
		path: path,
		ch:   make(chan op, bufferSize),
	}
	w.wg.Add(1)
	go w.loop(f)
	return w, nil
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Write queues one record for encoding. It blocks only when the buffer is
// full.
func (w *Writer) Write(v any) error {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed.Load() {
		return ErrClosed
	}
	w.ch <- op{typ: opWrite, val: v}
	return nil
}

// Flush forces buffered output to disk and waits for completion.
func (w *Writer) Flush() error {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed.Load() {
		return ErrClosed
	}
	done := make(chan error, 1)
	w.ch <- op{typ: opFlush, done: done}
	return <-done
}

// Close flushes and closes the file. Subsequent writes fail with ErrClosed.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.sendMu.Lock()
		w.closed.Store(true)
		close(w.ch)
		w.sendMu.Unlock()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Writer) loop(f *os.File) {
	defer w.wg.Done()

	bw := bufio.NewWriterSize(f, 64*1024)
	enc := json.NewEncoder(bw)

	for req := range w.ch {
		switch req.typ {
		case opWrite:
			if err := enc.Encode(req.val); err != nil && w.closeErr == nil {
				w.closeErr = fmt.Errorf("encode record: %w", err)
			}
		case opFlush:
			err := bw.Flush()
			if err == nil {
				err = f.Sync()
			}
			req.done <- err
		}
	}

	if err := bw.Flush(); err != nil && w.closeErr == nil {
		w.closeErr = fmt.Errorf("flush output: %w", err)
	}
	if err := f.Close(); err != nil && w.closeErr == nil {
		w.closeErr = fmt.Errorf("close output: %w", err)
	}
}
