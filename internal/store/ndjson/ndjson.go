// Package ndjson appends ticks as newline-delimited JSON for offline analysis.
package ndjson

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"pairflow/internal/market"
)

// Recorder writes one JSON object per tick to an append-only file.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewRecorder creates/opens the target file and returns a recorder.
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record writes a batch of ticks, one line each.
func (r *Recorder) Record(ticks []market.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tk := range ticks {
		_ = r.enc.Encode(tk)
	}
}

// Close flushes and closes the file handle.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
