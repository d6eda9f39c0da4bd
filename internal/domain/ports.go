package domain

import (
	"context"
	"io"
)

// GrantSource provides the grants declared for this run. Implementations
// are read-only; nothing about a grant is persisted between runs.
type GrantSource interface {
	Load(ctx context.Context, name string) (*Grant, error)
	List(ctx context.Context) ([]Grant, error)
}

// OutputSink hands out the writer that rendered vesting dates go to.
type OutputSink interface {
	// Open returns a writer for one run's output. Callers must Close it;
	// for file sinks Close flushes the file to disk.
	Open(ctx context.Context) (io.WriteCloser, error)
}
