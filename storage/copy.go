package storage

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
)

// Copy streams a file from one location to another. Both streams are closed on
// every path, and any failure, including a failure to close, is returned.
func Copy(ctx context.Context, src FileSystem, srcURI string, dst FileSystem, dstURI string) (n int64, err error) {
	r, err := src.Open(ctx, srcURI)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()
	w, err := dst.Create(ctx, dstURI)
	if err != nil {
		return 0, err
	}
	n, err = io.Copy(w, r)
	if cerr := w.Close(); cerr != nil {
		err = multierror.Append(err, cerr).ErrorOrNil()
	}
	return n, err
}
