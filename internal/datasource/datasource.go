// Package datasource abstracts where the survey export bytes come from: the
// authenticated HTTP export endpoint in production, a saved file when
// replaying a run offline.
package datasource

import (
	"context"
	"io"
)

// Source opens the byte stream of one survey export. The pipeline calls
// Open once per run and owns the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
