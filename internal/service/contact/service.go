package contact

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
)

// Field messages shown next to the offending form input.
const (
	NameRequired    = "Identity required. Who goes there?"
	EmailRequired   = "Uplink coordinates (email) required."
	EmailInvalid    = "Invalid signal format. Please provide a valid email address (e.g., user@domain.com)."
	MessageRequired = "Payload is empty. Please enter your transmission."

	// Acknowledgement is returned once a transmission is accepted.
	Acknowledgement = "Thank you for your message. I will decrypt and respond shortly."
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Form is the contact form payload.
type Form struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,signal"`
	Message string `json:"message" validate:"notblank"`
}

// Transmission is an accepted contact form.
type Transmission struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// ValidationError carries one message per invalid field, keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range []string{"name", "email", "message"} {
		if msg, ok := e.Fields[name]; ok {
			parts = append(parts, name+": "+msg)
		}
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

// Service validates contact forms and keeps accepted transmissions in memory.
type Service struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	inbox []Transmission
}

// NewService builds the contact form service. It panics if the form validators cannot be registered.
func NewService(logger *zap.Logger) *Service {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}

	return &Service{
		validate: v,
		logger:   logging.OrNop(logger).Named("contact"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := v.RegisterValidation("signal", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register signal: %w", err)
	}
	return v, nil
}

// Validate checks the form and returns a *ValidationError listing every invalid field.
func (s *Service) Validate(form Form) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return NameRequired
	case "email":
		if fe.Tag() == "signal" {
			return EmailInvalid
		}
		return EmailRequired
	default:
		return MessageRequired
	}
}

// Submit validates the form and stores it.
func (s *Service) Submit(_ context.Context, form Form) (Transmission, error) {
	if err := s.Validate(form); err != nil {
		return Transmission{}, err
	}

	t := Transmission{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(form.Name),
		Email:      form.Email,
		Message:    strings.TrimSpace(form.Message),
		ReceivedAt: s.now(),
	}

	s.mu.Lock()
	s.inbox = append(s.inbox, t)
	s.mu.Unlock()

	s.logger.Info("transmission received", zap.String("id", t.ID), zap.String("email", t.Email))
	return t, nil
}

// Inbox returns the accepted transmissions, oldest first.
func (s *Service) Inbox() []Transmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transmission(nil), s.inbox...)
}
