package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alechenninger/vestdates/internal/domain"
)

type Source struct {
	mu     sync.Mutex
	grants map[string]domain.Grant // key: name
}

func New(grants ...domain.Grant) *Source {
	s := &Source{grants: make(map[string]domain.Grant, len(grants))}
	for _, g := range grants {
		s.grants[g.Name] = g
	}
	return s
}

func (s *Source) Load(ctx context.Context, name string) (*domain.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrantNotFound, name)
	}
	v := g
	return &v, nil
}

func (s *Source) List(ctx context.Context) ([]domain.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := make([]domain.Grant, 0, len(s.grants))
	for _, g := range s.grants {
		gs = append(gs, g)
	}
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Start != gs[j].Start {
			return gs[i].Start < gs[j].Start
		}
		return gs[i].Name < gs[j].Name
	})
	return gs, nil
}

var _ domain.GrantSource = (*Source)(nil)
