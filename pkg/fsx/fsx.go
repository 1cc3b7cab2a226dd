package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by readers when the path does not exist
var ErrNotExist = errors.New("fsx: file does not exist")

// FileReader is the read side of a FileSystem
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter is the write side of a FileSystem
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem stores uploaded documents under slash separated keys
type FileSystem interface {
	FileReader
	FileWriter
	Join(elem ...string) string
}
