package memory

import (
	"context"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/store"
)

type AppStore struct {
	mu   sync.Mutex
	apps []models.AppItem
	err  error
}

func NewAppStore(names ...string) *AppStore {
	s := &AppStore{}
	for _, n := range names {
		s.apps = append(s.apps, models.AppItem{AppName: n})
	}
	return s
}

// FailWith makes every later List call return err; nil restores normal behaviour.
func (s *AppStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *AppStore) List(ctx context.Context) ([]models.AppItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return append([]models.AppItem(nil), s.apps...), nil
}

var _ store.AppStore = (*AppStore)(nil)
