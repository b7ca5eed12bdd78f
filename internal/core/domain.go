package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength bounds, in characters, the title accepted by NewExpense.
// Stored records are not held to it.
const MaxTitleLength = 200

type (
	// Expense is a single recorded spending event. Records are never edited
	// in place; the ID is assigned once at creation.
	Expense struct {
		ID       string
		Title    string
		Amount   Money
		Category string // soft reference to a Category name
		Date     time.Time
		Notes    string // empty means absent
	}

	// ValidationError reports which field of an expense failed validation.
	ValidationError struct {
		Field string
		Err   error
	}
)

var (
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyTitle    = errors.New("empty title")
	ErrTitleTooLong  = fmt.Errorf("title too long (max %d characters)", MaxTitleLength)
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroDate      = errors.New("date cannot be zero")
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// NewID returns a fresh expense identifier.
func NewID() string {
	return uuid.NewString()
}

// NewExpense builds a validated expense from user input.
//
// Title and notes are trimmed and blank notes are dropped. A zero date
// defaults to the current time. The returned expense carries a new ID.
// Titles longer than MaxTitleLength characters are rejected.
func NewExpense(title string, amount Money, category string, date time.Time, notes string) (Expense, error) {
	if date.IsZero() {
		date = time.Now()
	}
	e := Expense{
		ID:       NewID(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
		Notes:    notes,
	}.Normalize()
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return Expense{}, invalid("title", ErrTitleTooLong)
	}
	return e, nil
}

// Normalize trims the text fields, so whitespace-only notes become absent.
func (e Expense) Normalize() Expense {
	e.ID = strings.TrimSpace(e.ID)
	e.Title = strings.TrimSpace(e.Title)
	e.Category = strings.TrimSpace(e.Category)
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}

// Validate checks the record invariants. Errors are *ValidationError and
// unwrap to one of the package sentinels.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return invalid("id", ErrEmptyID)
	}
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return invalid("title", ErrEmptyTitle)
	}
	if err := e.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if strings.TrimSpace(e.Category) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if e.Date.IsZero() {
		return invalid("date", ErrZeroDate)
	}
	return nil
}

// HasNotes reports whether the expense carries notes.
func (e Expense) HasNotes() bool {
	return e.Notes != ""
}
