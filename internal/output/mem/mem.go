package mem

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/alechenninger/vestdates/internal/domain"
)

// Sink collects output in memory; for tests.
type Sink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func New() *Sink { return &Sink{} }

func (s *Sink) Open(ctx context.Context) (io.WriteCloser, error) {
	return nopCloser{s}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *Sink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

var _ domain.OutputSink = (*Sink)(nil)
