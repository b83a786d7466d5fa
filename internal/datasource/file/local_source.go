// Package file implements a filesystem-backed export source, used to replay
// a previously downloaded export without touching the survey server.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens a saved export from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context already canceled at
// call time returns immediately without touching the filesystem. Filesystem
// errors are wrapped with the path and stay inspectable with errors.Is
// (e.g. os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
