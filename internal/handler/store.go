package handler

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
)

// Kind distinguishes engine and model registrations.
type Kind string

const (
	KindEngine Kind = "engine"
	KindModel  Kind = "model"
)

// Registration identifies a stored engine or model.
type Registration struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	CreatedAt time.Time
}

// Engine is a registered engine with its validated credentials.
type Engine struct {
	Registration
	Config settings.EngineConfig
}

// Model is a registered model. Args holds the stored arguments: the user's
// parameters plus "target" and "handler_model_params".
type Model struct {
	Registration
	Engine string
	Target string
	Args   map[string]any
	Config settings.ModelConfig
}

// Store keeps registrations in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	engines map[string]*Engine
	models  map[string]*Model
	now     func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		engines: make(map[string]*Engine),
		models:  make(map[string]*Model),
		now:     time.Now,
	}
}

func (s *Store) register(name string, kind Kind) Registration {
	return Registration{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		CreatedAt: s.now().UTC(),
	}
}

// PutEngine stores an engine under name. It fails when the name is taken.
func (s *Store) PutEngine(name string, cfg settings.EngineConfig) (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.engines[name]; ok {
		return nil, alreadyExists(KindEngine, name)
	}
	e := &Engine{Registration: s.register(name, KindEngine), Config: cfg}
	s.engines[name] = e
	return e, nil
}

// Engine returns the engine registered under name.
func (s *Store) Engine(name string) (*Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[name]
	return e, ok
}

// DeleteEngine removes an engine. Engines still referenced by a model cannot
// be removed.
func (s *Store) DeleteEngine(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.engines[name]; !ok {
		return notFound(ErrEngineNotFound, name)
	}
	for _, m := range s.models {
		if m.Engine == name {
			return inUse(name, m.Name)
		}
	}
	delete(s.engines, name)
	return nil
}

// PutModel stores a model under name. It fails when the name is taken.
func (s *Store) PutModel(name string, m Model) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[name]; ok {
		return nil, alreadyExists(KindModel, name)
	}
	if _, ok := s.engines[m.Engine]; !ok {
		return nil, notFound(ErrEngineNotFound, m.Engine)
	}
	m.Registration = s.register(name, KindModel)
	stored := &m
	s.models[name] = stored
	return stored, nil
}

// Model returns the model registered under name.
func (s *Store) Model(name string) (*Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	return m, ok
}

// DeleteModel removes a model.
func (s *Store) DeleteModel(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[name]; !ok {
		return notFound(ErrModelNotFound, name)
	}
	delete(s.models, name)
	return nil
}

// List returns every registration ordered by kind and name.
func (s *Store) List() []Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Registration, 0, len(s.engines)+len(s.models))
	for _, e := range s.engines {
		out = append(out, e.Registration)
	}
	for _, m := range s.models {
		out = append(out, m.Registration)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
