package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/SengHong/CertSend/internal/constant"
	"github.com/SengHong/CertSend/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("template not found")
	ErrInvalidSettings = errors.New("invalid settings payload, missing required properties")
)

// Store owns the name-keyed template collection. The in-memory slice is the
// source of truth; every mutation re-persists the whole collection to the
// storage collaborator, so persisted state always mirrors the last committed
// mapping.
type Store struct {
	storage storage.Store
	logger  *zap.SugaredLogger

	mu        sync.RWMutex
	templates []Template
}

// NewStore reads the persisted collection once. A missing or corrupt blob is
// not fatal, the store just starts empty.
func NewStore(st storage.Store, logger *zap.SugaredLogger) *Store {
	s := &Store{storage: st, logger: logger}

	data, err := st.Load(constant.TEMPLATE_STORAGE_KEY)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warnf("Failed to load saved templates, starting empty: %v", err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.templates); err != nil {
		logger.Warnf("Saved templates are corrupt, starting empty: %v", err)
		s.templates = nil
	}

	return s
}

// commitLocked persists the staged collection and adopts it in memory only
// after the save succeeds. A failed save leaves the current mapping intact.
func (s *Store) commitLocked(next []Template) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	if err := s.storage.Save(constant.TEMPLATE_STORAGE_KEY, data); err != nil {
		return fmt.Errorf("failed to persist templates: %w", err)
	}

	s.templates = next
	return nil
}

// Upsert validates and clamps the template, then fully replaces the entry
// with the same name or appends a new one.
func (s *Store) Upsert(t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Clamp()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Template, len(s.templates))
	copy(next, s.templates)

	replaced := false
	for i := range next {
		if next[i].Name == t.Name {
			next[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, t)
	}

	return s.commitLocked(next)
}

func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.templates {
		if s.templates[i].Name == name {
			next := make([]Template, 0, len(s.templates)-1)
			next = append(next, s.templates[:i]...)
			next = append(next, s.templates[i+1:]...)
			return s.commitLocked(next)
		}
	}

	return ErrNotFound
}

func (s *Store) Get(name string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.Name == name {
			return t, nil
		}
	}

	return Template{}, ErrNotFound
}

// List returns a snapshot of all templates in insertion order.
func (s *Store) List() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// Export produces the image-free settings payload for the named template,
// small enough to share without re-embedding the picture.
func (s *Store) Export(name string) ([]byte, error) {
	t, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(t.Settings(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	return data, nil
}

// Import parses an exported settings payload. It yields style and text
// fields only; deciding whether to merge them into an image-bearing template
// is up to the caller, the store never fabricates a missing image.
func (s *Store) Import(payload []byte) (Settings, error) {
	var settings Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	if settings.Name == "" || settings.FontSizePx == 0 || settings.FontColor == "" {
		return Settings{}, ErrInvalidSettings
	}

	return settings, nil
}
