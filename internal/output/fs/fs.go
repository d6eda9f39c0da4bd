package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/spf13/afero"
)

// FileSink writes each run's output to a single file, replacing any
// previous contents.
type FileSink struct {
	path string
	fs   afero.Fs
}

func New(path string) *FileSink                      { return &FileSink{path: path, fs: afero.NewOsFs()} }
func NewWithFS(path string, fsys afero.Fs) *FileSink { return &FileSink{path: path, fs: fsys} }

func (s *FileSink) Open(ctx context.Context) (io.WriteCloser, error) {
	af := &afero.Afero{Fs: s.fs}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := af.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return syncCloser{f}, nil
}

type syncCloser struct{ afero.File }

func (c syncCloser) Close() error {
	if err := c.File.Sync(); err != nil {
		_ = c.File.Close()
		return err
	}
	return c.File.Close()
}

var _ domain.OutputSink = (*FileSink)(nil)
