package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/osse101/OsuLink_Go/internal/logger"
)

// jsonTable is a whole-file JSON document guarded by a single mutex.
// Reads never fail: a missing or malformed file is replaced by the empty value.
type jsonTable[T any] struct {
	mu    sync.Mutex
	path  string
	empty func() T
	// normalize repairs a decoded value (e.g. nil maps from "{}").
	normalize func(*T)
}

// load reads the table. Caller must hold mu.
func (t *jsonTable[T]) load(ctx context.Context) T {
	data, err := os.ReadFile(t.path)
	if err == nil {
		var v T
		if err = json.Unmarshal(data, &v); err == nil {
			if t.normalize != nil {
				t.normalize(&v)
			}
			return v
		}
	}

	log := logger.FromContext(ctx)
	if !errors.Is(err, fs.ErrNotExist) {
		log.Warn(LogMsgTableReset, "path", t.path, "error", err)
	}

	v := t.empty()
	if saveErr := t.save(v); saveErr != nil {
		log.Error(LogMsgTableResetErr, "path", t.path, "error", saveErr)
	}
	return v
}

// save rewrites the whole table through a temp file and rename. Caller must hold mu.
func (t *jsonTable[T]) save(v T) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, DirPermission); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateDir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeTable, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteTable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteTable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteTable, err)
	}
	if err := os.Chmod(tmpName, FilePermission); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteTable, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteTable, err)
	}
	return nil
}
