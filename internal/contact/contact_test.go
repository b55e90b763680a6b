package contact

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSubmit(t *testing.T) {
	s := NewService(5*time.Millisecond, nil)
	r, err := s.Submit(context.Background(), Message{Name: "Sam", Email: "sam@example.com", Message: "Hi"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if r.Title != "Message sent!" || r.Description != "We'll get back to you as soon as possible." {
		t.Fatalf("unexpected receipt %+v", r)
	}
}

func TestSubmitValidation(t *testing.T) {
	s := NewService(0, nil)
	cases := []struct {
		m    Message
		want error
	}{
		{Message{Email: "a@b.co", Message: "x"}, ErrMissingFields},
		{Message{Name: "a", Email: "  ", Message: "x"}, ErrMissingFields},
		{Message{Name: "a", Email: "not-an-email", Message: "x"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		if _, err := s.Submit(context.Background(), tc.m); !errors.Is(err, tc.want) {
			t.Errorf("Submit(%+v) = %v, want %v", tc.m, err, tc.want)
		}
	}
}

func TestSubmitCancelled(t *testing.T) {
	s := NewService(time.Minute, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Submit(ctx, Message{Name: "Sam", Email: "sam@example.com", Message: "Hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
