package console

import (
	"context"
	"strings"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/sirupsen/logrus"
)

// AppFilterSource holds the application names offered by the App column filter.
type AppFilterSource struct {
	registry AppRegistry
	log      logrus.FieldLogger

	mu      sync.RWMutex
	names   []string
	version uint64
	loaded  bool
	err     error
}

func NewAppFilterSource(registry AppRegistry, log logrus.FieldLogger) *AppFilterSource {
	return &AppFilterSource{registry: registry, log: log}
}

// Load fetches the app list once. On failure the option list is left empty and the
// error is kept for display; the job table does not depend on it.
func (s *AppFilterSource) Load(ctx context.Context) error {
	items, err := s.registry.ListApps(ctx)
	if err != nil {
		lerr := &Error{Kind: LoadFailed, Op: "list apps", Err: err}
		s.mu.Lock()
		s.names = nil
		s.loaded = true
		s.err = lerr
		s.mu.Unlock()
		s.log.WithError(err).Warn("app filter options unavailable")
		return lerr
	}

	names := distinctNames(items)
	s.mu.Lock()
	s.names = names
	s.loaded = true
	s.err = nil
	s.version++
	s.mu.Unlock()
	return nil
}

func distinctNames(items []models.AppItem) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.AppName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Names returns a copy of the loaded app names in registry order.
func (s *AppFilterSource) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Version increases with every successful Load.
func (s *AppFilterSource) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *AppFilterSource) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AppFilterSource) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
