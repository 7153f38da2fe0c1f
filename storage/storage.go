// Package storage provides the file-access collaborator used to read pipeline
// input and stage files. FileSystems are addressed by URI, and a Router
// dispatches each URI to the FileSystem registered for its scheme.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/go-sif/crimeflow/errors"
)

// Info describes a stored file
type Info struct {
	URI  string
	Size int64
}

// A FileSystem opens and creates files addressed by URI
type FileSystem interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)   // Open returns a byte stream for an existing file
	Create(ctx context.Context, uri string) (io.WriteCloser, error) // Create returns a byte sink for a new or truncated file. Data is durable once Close returns nil
	Stat(ctx context.Context, uri string) (*Info, error)            // Stat describes an existing file
}

// ParseURI splits a URI into its scheme and the remainder of the address.
// Bare paths have the scheme "file".
func ParseURI(uri string) (scheme string, location string, err error) {
	if !strings.Contains(uri, "://") {
		return "file", uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	return strings.ToLower(u.Scheme), u.Host + u.Path, nil
}

// Router is a FileSystem which dispatches each URI to the FileSystem registered for its scheme
type Router struct {
	lock   sync.RWMutex
	routes map[string]FileSystem
}

// NewRouter creates a Router with no registered FileSystems
func NewRouter() *Router {
	return &Router{routes: make(map[string]FileSystem)}
}

// Register associates a FileSystem with a URI scheme, replacing any previous association
func (r *Router) Register(scheme string, fs FileSystem) *Router {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.routes[strings.ToLower(scheme)] = fs
	return r
}

func (r *Router) route(uri string) (FileSystem, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	fs, ok := r.routes[scheme]
	if !ok {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: fmt.Errorf("no filesystem registered for scheme %q", scheme)}
	}
	return fs, nil
}

// Open returns a byte stream for an existing file
func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	fs, err := r.route(uri)
	if err != nil {
		return nil, err
	}
	return fs.Open(ctx, uri)
}

// Create returns a byte sink for a new or truncated file
func (r *Router) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	fs, err := r.route(uri)
	if err != nil {
		return nil, err
	}
	return fs.Create(ctx, uri)
}

// Stat describes an existing file
func (r *Router) Stat(ctx context.Context, uri string) (*Info, error) {
	fs, err := r.route(uri)
	if err != nil {
		return nil, err
	}
	return fs.Stat(ctx, uri)
}
