// Package editor validates new transaction input and prepends accepted
// records to a store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// Form is the raw editor input.
type Form struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// DefaultForm is the editor state after reset: an expense dated today.
func DefaultForm(now time.Time) Form {
	return Form{
		Type: string(core.Expense),
		Date: core.DateOf(now).String(),
	}
}

// Variant selects how a notice is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is the user facing outcome of a submission.
type Notice struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

// ValidationError reports the first rejected field. It unwraps to one of
// the core sentinel errors.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of Submit. Next is the form state to show after the
// submission: defaults on success, the user's input on failure.
type Result struct {
	Transaction core.Transaction `json:"transaction"`
	Notice      Notice           `json:"notice"`
	Next        Form             `json:"next"`
}

type Editor struct {
	store  ledger.Prepender
	now    func() time.Time
	newID  func() string
	strict bool
}

type Option func(*Editor)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// WithStrictCategories toggles category membership checks.
func WithStrictCategories(strict bool) Option {
	return func(e *Editor) { e.strict = strict }
}

// New returns an editor writing to store. Category membership is enforced
// unless disabled with WithStrictCategories(false).
func New(store ledger.Prepender, opts ...Option) *Editor {
	e := &Editor{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		strict: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults returns the initial form state.
func (e *Editor) Defaults() Form {
	return DefaultForm(e.now())
}

// Validate checks f and returns the transaction it describes, without an ID.
// Checks run in order and stop at the first failure: required fields,
// amount, date, category.
func (e *Editor) Validate(f Form) (core.Transaction, error) {
	typ := core.NormalizeType(f.Type)

	for _, field := range []struct{ name, value string }{
		{"amount", f.Amount},
		{"description", f.Description},
		{"category", f.Category},
		{"date", f.Date},
	} {
		if strings.TrimSpace(field.value) == "" {
			return core.Transaction{}, &ValidationError{Field: field.name, Err: core.ErrMissingFields}
		}
	}

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Transaction{}, &ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}

	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Transaction{}, &ValidationError{Field: "date", Err: core.ErrInvalidDate}
	}

	category := strings.TrimSpace(f.Category)
	if e.strict && !core.IsKnownCategory(typ, category) {
		return core.Transaction{}, &ValidationError{Field: "category", Err: core.ErrUnknownCategory}
	}

	return core.Transaction{
		Amount:      amount,
		Description: strings.TrimSpace(f.Description),
		Category:    category,
		Date:        date,
		Type:        typ,
	}, nil
}

// Submit validates f and, when valid, prepends the new transaction to the
// store. Nothing is written when validation fails.
func (e *Editor) Submit(ctx context.Context, f Form) (Result, error) {
	tx, err := e.Validate(f)
	if err != nil {
		return Result{Notice: NoticeFor(err), Next: f}, err
	}

	tx.ID = e.newID()
	if _, err := e.store.Prepend(ctx, tx); err != nil {
		return Result{Notice: NoticeFor(err), Next: f}, fmt.Errorf("store transaction: %w", err)
	}

	return Result{
		Transaction: tx,
		Notice: Notice{
			Title:   "Success!",
			Message: tx.Type.Label() + " added successfully",
			Variant: VariantDefault,
		},
		Next: e.Defaults(),
	}, nil
}

// NoticeFor maps a submission error onto the notice shown to the user.
func NoticeFor(err error) Notice {
	switch {
	case errors.Is(err, core.ErrMissingFields):
		return Notice{Title: "Missing fields", Message: "Please fill in all required fields", Variant: VariantDestructive}
	case errors.Is(err, core.ErrInvalidAmount):
		return Notice{Title: "Invalid amount", Message: "Please enter a valid positive amount", Variant: VariantDestructive}
	case errors.Is(err, core.ErrInvalidDate):
		return Notice{Title: "Invalid date", Message: "Please enter a date as YYYY-MM-DD", Variant: VariantDestructive}
	case errors.Is(err, core.ErrUnknownCategory):
		return Notice{Title: "Unknown category", Message: "Please choose a category from the list", Variant: VariantDestructive}
	default:
		return Notice{Title: "Something went wrong", Message: "The transaction could not be saved", Variant: VariantDestructive}
	}
}
