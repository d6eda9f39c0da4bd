package fs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alechenninger/vestdates/internal/config"
	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/spf13/afero"
)

// Source reads grants from the config file at path. The file is read once
// and cached for the life of the Source.
type Source struct {
	fs   afero.Fs
	path string
	cfg  *config.Config

	mu     sync.Mutex
	grants map[string]domain.Grant
}

func New(path string) *Source {
	return NewWithFS(afero.NewOsFs(), path)
}

func NewWithFS(fsys afero.Fs, path string) *Source {
	return &Source{fs: fsys, path: path}
}

// NewFromConfig serves the grants of a config already loaded from path,
// without reading the file again.
func NewFromConfig(cfg *config.Config, path string) *Source {
	return &Source{path: path, cfg: cfg}
}

func (s *Source) load() (map[string]domain.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grants != nil {
		return s.grants, nil
	}
	cfg := s.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.Load(s.fs, s.path); err != nil {
			return nil, err
		}
	}
	grants := make(map[string]domain.Grant, len(cfg.Grants))
	for _, gc := range cfg.Grants {
		p, created, err := gc.GrantParams()
		if err != nil {
			return nil, err
		}
		if _, dup := grants[p.Name]; dup {
			return nil, fmt.Errorf("%w: grant %s declared twice in %s", domain.ErrInvalidGrant, p.Name, s.path)
		}
		g, err := domain.NewGrant(p, created)
		if err != nil {
			return nil, fmt.Errorf("grant %s: %w", p.Name, err)
		}
		grants[p.Name] = *g
	}
	s.grants = grants
	return grants, nil
}

func (s *Source) Load(ctx context.Context, name string) (*domain.Grant, error) {
	grants, err := s.load()
	if err != nil {
		return nil, err
	}
	g, ok := grants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrantNotFound, name)
	}
	return &g, nil
}

func (s *Source) List(ctx context.Context) ([]domain.Grant, error) {
	grants, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Grant, 0, len(grants))
	for _, g := range grants {
		out = append(out, g)
	}
	sortGrants(out)
	return out, nil
}

func sortGrants(gs []domain.Grant) {
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Start != gs[j].Start {
			return gs[i].Start < gs[j].Start
		}
		return gs[i].Name < gs[j].Name
	})
}

var _ domain.GrantSource = (*Source)(nil)
