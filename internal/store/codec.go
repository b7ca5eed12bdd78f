package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expenses/internal/core"
)

// record is the persisted shape of an expense. Blobs written without an
// id still decode.
type record struct {
	ID       string     `json:"id,omitempty"`
	Title    string     `json:"title"`
	Amount   core.Money `json:"amount"`
	Category string     `json:"category"`
	Date     time.Time  `json:"date"`
	Notes    *string    `json:"notes,omitempty"`
}

func toRecord(e core.Expense) record {
	r := record{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
	}
	if e.HasNotes() {
		notes := e.Notes
		r.Notes = &notes
	}
	return r
}

func (r record) expense() core.Expense {
	e := core.Expense{
		ID:       r.ID,
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     r.Date,
	}
	if r.Notes != nil {
		e.Notes = *r.Notes
	}
	return e
}

// Encode serializes expenses in collection order.
func Encode(expenses []core.Expense) ([]byte, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = toRecord(e)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode expenses: %w", err)
	}
	return data, nil
}

// RecordError reports an element of a stored blob that could not be decoded.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("decode expense %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Decode parses a blob produced by Encode. Records without an id get a
// fresh one; no other validation is applied.
//
// A blob that is not a JSON array fails as a whole. Elements that fail on
// their own are skipped: the remaining expenses are returned together with
// an error joining one *RecordError per skipped element.
func Decode(data []byte) ([]core.Expense, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			errs = append(errs, &RecordError{Index: i, Err: err})
			continue
		}
		e := r.expense()
		if e.ID == "" {
			e.ID = core.NewID()
		}
		out = append(out, e)
	}
	return out, errors.Join(errs...)
}
