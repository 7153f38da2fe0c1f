package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-sif/crimeflow/errors"
	"github.com/spf13/afero"
)

// LocalFS is a FileSystem for "file" URIs, backed by an afero.Fs
type LocalFS struct {
	fs afero.Fs
}

// NewLocalFS creates a LocalFS. A nil afero.Fs means the operating system's filesystem.
func NewLocalFS(fs afero.Fs) *LocalFS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LocalFS{fs: fs}
}

func (l *LocalFS) path(uri string) (string, error) {
	_, location, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	return filepath.Clean(location), nil
}

// Open returns a byte stream for an existing file
func (l *LocalFS) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := l.path(uri)
	if err != nil {
		return nil, err
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	return f, nil
}

// Create returns a byte sink for a new or truncated file, creating parent directories as needed
func (l *LocalFS) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	path, err := l.path(uri)
	if err != nil {
		return nil, err
	}
	if err := l.fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return l.fs.Create(path)
}

// Stat describes an existing file
func (l *LocalFS) Stat(ctx context.Context, uri string) (*Info, error) {
	path, err := l.path(uri)
	if err != nil {
		return nil, err
	}
	fi, err := l.fs.Stat(path)
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	return &Info{URI: uri, Size: fi.Size()}, nil
}
