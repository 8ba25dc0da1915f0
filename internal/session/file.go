// Package session keeps the Telegram session token on disk.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rusq/encio"
)

// FileStorage holds a single opaque session token in the file at Path.  By
// default the file is encrypted with a machine-bound key.
type FileStorage struct {
	Path string

	plain bool
	mu    sync.Mutex
}

type Option func(*FileStorage)

// WithPlainText disables the encryption of the session file.
func WithPlainText() Option {
	return func(f *FileStorage) {
		f.plain = true
	}
}

func New(path string, opts ...Option) *FileStorage {
	f := &FileStorage{Path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load returns the stored token.  If the file does not exist, it returns an
// empty token and no error.
func (f *FileStorage) Load(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hFile, err := f.open()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer hFile.Close()

	data, err := io.ReadAll(hFile)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}

// Save overwrites the file with data.
func (f *FileStorage) Save(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	hFile, err := f.create()
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := io.Copy(hFile, bytes.NewReader(data)); err != nil {
		hFile.Close()
		return fmt.Errorf("write: %w", err)
	}
	return hFile.Close()
}

func (f *FileStorage) open() (io.ReadCloser, error) {
	if f.plain {
		return os.Open(f.Path)
	}
	return encio.Open(f.Path)
}

func (f *FileStorage) create() (io.WriteCloser, error) {
	if f.plain {
		return os.OpenFile(f.Path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	}
	return encio.Create(f.Path)
}

// Remove deletes the session file.  Missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
