package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/ai"
)

var (
	ErrPersonaNotFound = errors.New("persona not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Options are applied to every session created by a Service.
type Options struct {
	Timeout    time.Duration
	Classifier *Classifier
	Now        func() time.Time
	Logger     *zap.Logger
	Metrics    *Metrics
}

// Service keeps the live widget sessions in memory. Nothing survives a restart.
type Service struct {
	personas  persona.Store
	generator ai.Generator
	opts      Options
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	prompts  map[string]*ai.PromptBuilder
}

// NewService bootstraps the in-memory session registry.
func NewService(personas persona.Store, generator ai.Generator, opts Options) *Service {
	return &Service{
		personas:  personas,
		generator: generator,
		opts:      opts,
		logger:    logging.OrNop(opts.Logger).Named("chat"),
		sessions:  make(map[string]*Session),
		prompts:   make(map[string]*ai.PromptBuilder),
	}
}

// CreateSession mounts a widget session bound to a persona. An empty id selects the default persona.
func (s *Service) CreateSession(_ context.Context, personaID string) (*Session, error) {
	p, err := s.resolvePersona(personaID)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(SessionConfig{
		Persona:    p,
		Generator:  s.generator,
		Prompts:    s.promptBuilder(p),
		Classifier: s.opts.Classifier,
		Timeout:    s.opts.Timeout,
		Now:        s.opts.Now,
		Logger:     s.opts.Logger,
		Metrics:    s.opts.Metrics,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	s.opts.Metrics.sessionOpened()

	s.logger.Info("session created", zap.String("session", session.ID()), zap.String("persona", p.ID))
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns the messages of the provided session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript(), nil
}

// DeleteSession unmounts a widget session and drops its transcript.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Dispose()
	s.opts.Metrics.sessionClosed()
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) resolvePersona(id string) (persona.Persona, error) {
	if id == "" {
		p := s.personas.Default()
		if p.ID == "" {
			return persona.Persona{}, ErrPersonaNotFound
		}
		return p, nil
	}
	p, ok := s.personas.FindByID(id)
	if !ok {
		return persona.Persona{}, ErrPersonaNotFound
	}
	return p, nil
}

func (s *Service) promptBuilder(p persona.Persona) *ai.PromptBuilder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.prompts[p.ID]; ok {
		return b
	}
	b := ai.NewPromptBuilder(p, s.personas.Profile())
	s.prompts[p.ID] = b
	return b
}
