package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/resumescan/pkg/fsx"
)

const (
	dirMode  = 0o750
	fileMode = 0o640
)

// LocalFileSystem keeps files under a root directory on disk
type LocalFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, dirMode); err != nil {
		return nil, fmt.Errorf("create root %s: %w", abs, err)
	}
	return &LocalFileSystem{root: abs}, nil
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

func (fs *LocalFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// resolve maps a key to a path on disk, refusing keys that leave the root
func (fs *LocalFileSystem) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	full := filepath.Join(fs.root, filepath.FromSlash(clean))
	if full != fs.root && !strings.HasPrefix(full, fs.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", key)
	}
	if full == fs.root {
		return "", fmt.Errorf("path %q is the storage root", key)
	}
	return full, nil
}

func (fs *LocalFileSystem) WriteFile(ctx context.Context, key string, data []byte) error {
	full, err := fs.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirMode); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	if err := os.WriteFile(full, data, fileMode); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (fs *LocalFileSystem) WriteFileStream(ctx context.Context, key string, r io.Reader) error {
	full, err := fs.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirMode); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

func (fs *LocalFileSystem) ReadFile(ctx context.Context, key string) ([]byte, error) {
	full, err := fs.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", key, fsx.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (fs *LocalFileSystem) Exists(ctx context.Context, key string) (bool, error) {
	full, err := fs.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// DeleteFile removes the file. Missing files are not an error.
func (fs *LocalFileSystem) DeleteFile(ctx context.Context, key string) error {
	full, err := fs.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
