package session

import (
	"bytes"
	"context"
	"fmt"
	"os"

	tds "github.com/gotd/td/session"
)

const plainSignature = `{"Version":1`

// Migrate moves the unencrypted session file at path into dst.  It returns
// true if the file was migrated, false if it was missing, empty, or already in
// the dst format.
func Migrate(ctx context.Context, path string, dst *FileStorage) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if fi, err := f.Stat(); err != nil {
		return false, err
	} else if fi.Size() == 0 {
		return false, nil
	}
	b := make([]byte, len(plainSignature))
	if n, err := f.Read(b); err != nil {
		return false, fmt.Errorf("failed to read session file: %w", err)
	} else if n != len(plainSignature) {
		return false, fmt.Errorf("invalid session file")
	}
	if !bytes.Equal(b, []byte(plainSignature)) {
		return false, nil
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close error: %w", err)
	}

	src := tds.FileStorage{Path: path}
	data, err := src.LoadSession(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if err := dst.Save(ctx, data); err != nil {
		return false, fmt.Errorf("failed to save session: %w", err)
	}
	return true, nil
}
