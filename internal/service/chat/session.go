package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/ai"
)

var (
	ErrEmptyInput        = errors.New("message text is required")
	ErrPending           = errors.New("an exchange is already pending")
	ErrGeneratorRequired = errors.New("generator is required")

	errExchangeTimeout = errors.New("exchange timed out")
)

const subscriberBuffer = 8

// SessionConfig configures a widget session.
type SessionConfig struct {
	ID        string
	Persona   persona.Persona
	Profile   persona.Profile
	Generator ai.Generator

	// Prompts overrides the builder derived from Persona and Profile.
	Prompts    *ai.PromptBuilder
	Classifier *Classifier

	// Timeout bounds one exchange; zero waits for the generator indefinitely.
	Timeout time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics *Metrics
}

// Session owns the transcript of one chat widget and allows one exchange at a time.
type Session struct {
	id         string
	personaID  string
	createdAt  time.Time
	prompts    *ai.PromptBuilder
	generator  ai.Generator
	classifier *Classifier
	timeout    time.Duration
	now        func() time.Time
	logger     *zap.Logger
	metrics    *Metrics

	mu          sync.Mutex
	visible     bool
	pending     bool
	input       string
	messages    []chat.Message
	lastStamp   time.Time
	subscribers map[int]chan chat.Snapshot
	nextSubID   int
}

// NewSession creates a session whose transcript holds the persona greeting.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Generator == nil {
		return nil, ErrGeneratorRequired
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = ai.NewPromptBuilder(cfg.Persona, cfg.Profile)
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewClassifier(nil)
	}

	s := &Session{
		id:          id,
		personaID:   cfg.Persona.ID,
		prompts:     prompts,
		generator:   cfg.Generator,
		classifier:  classifier,
		timeout:     cfg.Timeout,
		now:         now,
		logger:      logging.OrNop(cfg.Logger).Named("chat").With(zap.String("session", id)),
		metrics:     cfg.Metrics,
		messages:    make([]chat.Message, 0, 16),
		subscribers: make(map[int]chan chat.Snapshot),
	}
	s.createdAt = now()

	greeting := cfg.Persona.Greeting
	if strings.TrimSpace(greeting) == "" {
		greeting = "Connection established. How can I help?"
	}
	s.appendLocked(chat.RoleAssistant, greeting)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Open shows the widget. The transcript is untouched.
func (s *Session) Open() {
	s.setVisible(true)
}

// Close hides the widget. The transcript is untouched.
func (s *Session) Close() {
	s.setVisible(false)
}

func (s *Session) setVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == v {
		return
	}
	s.visible = v
	s.notifyLocked()
}

// Visible reports whether the widget is open.
func (s *Session) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Pending reports whether an exchange is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Transcript returns a copy of the messages in conversation order.
func (s *Session) Transcript() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages...)
}

// Snapshot returns the presentation view of the session.
func (s *Session) Snapshot() chat.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Submit appends text as a user message, asks the generator for a reply and appends
// exactly one assistant message once the exchange settles. It blocks until then.
//
// Whitespace-only text returns ErrEmptyInput and a call made while another exchange
// is pending returns ErrPending; neither changes the session. Generator failures are
// never returned: they become a category-specific assistant reply.
//
// The exchange ignores cancellation of ctx.
func (s *Session) Submit(ctx context.Context, text string) (chat.Message, error) {
	s.mu.Lock()
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return chat.Message{}, ErrEmptyInput
	}
	if s.pending {
		s.mu.Unlock()
		return chat.Message{}, ErrPending
	}

	prior := append([]chat.Message(nil), s.messages...)
	s.appendLocked(chat.RoleUser, text)
	s.input = ""
	s.pending = true
	s.notifyLocked()
	s.mu.Unlock()

	reply := s.exchange(context.WithoutCancel(ctx), s.prompts.Build(prior, text))

	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.appendLocked(chat.RoleAssistant, reply)
	s.pending = false
	s.notifyLocked()
	return msg, nil
}

func (s *Session) exchange(ctx context.Context, prompt string) string {
	start := time.Now()
	s.metrics.exchangeStarted()

	reply, err := s.generate(ctx, prompt)

	var category Category
	switch {
	case errors.Is(err, errExchangeTimeout):
		category, reply = CategoryUnknown, UnknownFallback
	case err != nil:
		category, reply = s.classifier.Classify(err)
	case strings.TrimSpace(reply) == "":
		category, reply = CategoryNone, EmptyReplyFallback
	default:
		category = CategoryNone
	}

	elapsed := time.Since(start)
	s.metrics.exchangeSettled(category, elapsed)
	if err != nil {
		s.logger.Warn("exchange failed", zap.String("category", string(category)), zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		s.logger.Info("exchange settled", zap.Int("length", len(reply)), zap.Duration("elapsed", elapsed))
	}
	return reply
}

func (s *Session) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout <= 0 {
		return s.generator.Generate(ctx, prompt)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.generator.Generate(ctx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errExchangeTimeout
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", errExchangeTimeout
	}
}

// Subscribe returns a channel receiving a snapshot after every transcript, pending or
// visibility change. Slow readers only lose intermediate snapshots, never the latest.
func (s *Session) Subscribe() (<-chan chat.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan chat.Snapshot, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Dispose closes every subscription. Called when the widget unmounts.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *Session) appendLocked(role chat.Role, text string) chat.Message {
	stamp := s.now()
	if stamp.Before(s.lastStamp) {
		stamp = s.lastStamp
	}
	s.lastStamp = stamp

	msg := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: stamp,
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) snapshotLocked() chat.Snapshot {
	return chat.Snapshot{
		ID:        s.id,
		PersonaID: s.personaID,
		Visible:   s.visible,
		Pending:   s.pending,
		Input:     s.input,
		Messages:  append([]chat.Message(nil), s.messages...),
		CreatedAt: s.createdAt,
	}
}

func (s *Session) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the oldest queued snapshot so the latest always lands
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
