// Package contact accepts contact form messages after a simulated delivery
// delay.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"tracker/internal/delay"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
)

// Message is a submitted contact form.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Receipt is returned for an accepted message.
type Receipt struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReceivedAt  time.Time `json:"received_at"`
}

type Service struct {
	delay  time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewService(d time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{delay: d, logger: logger, now: time.Now}
}

// Validate checks that every field is present and the email parses.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(m.Email)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, m.Email)
	}
	return nil
}

// Submit validates m and waits out the delivery delay. A cancelled ctx
// aborts the submission and returns the context error.
func (s *Service) Submit(ctx context.Context, m Message) (Receipt, error) {
	if err := m.Validate(); err != nil {
		return Receipt{}, err
	}
	if err := delay.Wait(ctx, s.delay); err != nil {
		s.logger.InfoContext(ctx, "Contact submission abandoned", "error", err)
		return Receipt{}, err
	}
	s.logger.InfoContext(ctx, "Contact message received", "name_length", len(m.Name), "message_length", len(m.Message))
	return Receipt{
		Title:       "Message sent!",
		Description: "We'll get back to you as soon as possible.",
		ReceivedAt:  s.now(),
	}, nil
}
