// Package store owns the in-memory expense collection and keeps it in sync
// with a persistence.Gateway.
//
// The collection is written wholesale under a single key after every
// mutation. Mutations are serialized by a mutex and List returns a copy, so
// a Store may be shared across goroutines.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/persistence"
)

// DefaultKey is the storage key the collection is written under.
const DefaultKey = "expenses"

var (
	ErrDuplicateID     = errors.New("duplicate expense id")
	ErrUnknownCategory = errors.New("unknown category")
)

// PersistenceError reports a mutation that was applied in memory but could
// not be written through to the gateway.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (key %q): %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// EventKind names the mutation an Event describes.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventDeleted EventKind = "deleted"
	EventCleared EventKind = "cleared"
)

// Event is delivered to subscribers after a mutation. Snapshot is the
// collection as of that mutation.
type Event struct {
	Kind     EventKind
	Expense  core.Expense // zero for EventCleared
	Snapshot []core.Expense
	Err      error // non-nil when the write-through failed
}

// Subscriber receives events synchronously on the mutating goroutine.
type Subscriber func(ctx context.Context, ev Event)

// Store is the single owner of the expense collection.
type Store struct {
	mu       sync.RWMutex
	gateway  persistence.Gateway
	key      string
	registry *core.Registry // non-nil enables category enforcement
	logger   *log.Logger
	items    []core.Expense

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictCategories makes Add reject categories missing from registry.
// Without it the category is a free string.
func WithStrictCategories(registry *core.Registry) Option {
	return func(s *Store) {
		s.registry = registry
	}
}

// New builds a Store and loads the persisted collection. Missing or
// unreadable data starts an empty collection; it is logged, not returned.
func New(ctx context.Context, gateway persistence.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		key:     DefaultKey,
		logger:  log.Discard(),
		subs:    make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentStore)
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	data, err := s.gateway.Read(ctx, s.key)
	if errors.Is(err, persistence.ErrNotFound) {
		s.logger.DebugContext(ctx, "No stored expenses, starting empty", log.FieldKey, s.key)
		return
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read stored expenses, starting empty",
			log.FieldKey, s.key, log.FieldError, err, log.FieldErrorType, log.ErrorTypePersistence)
		return
	}

	decoded, err := Decode(data)
	var recErr *RecordError
	switch {
	case errors.As(err, &recErr):
		s.logger.WarnContext(ctx, "Skipping undecodable stored expenses",
			log.FieldKey, s.key, log.FieldError, err, log.FieldErrorType, log.ErrorTypeDecode)
	case err != nil:
		s.logger.WarnContext(ctx, "Stored expenses are unreadable, starting empty",
			log.FieldKey, s.key, log.FieldError, err, log.FieldErrorType, log.ErrorTypeDecode)
		return
	}

	seen := make(map[string]struct{}, len(decoded))
	items := make([]core.Expense, 0, len(decoded))
	for _, e := range decoded {
		e = e.Normalize()
		if err := e.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Skipping invalid stored expense",
				log.FieldExpenseID, e.ID, log.FieldError, err)
			continue
		}
		if _, dup := seen[e.ID]; dup {
			e.ID = core.NewID()
		}
		seen[e.ID] = struct{}{}
		items = append(items, e)
	}
	s.items = items
	s.logger.InfoContext(ctx, "Loaded expenses", log.FieldKey, s.key, log.FieldCount, len(items))
}

// Add appends e, with its text fields trimmed, and writes the collection
// through. Invalid input, a reused id or (in strict mode) an unknown
// category are rejected without mutating.
// A *PersistenceError means e was added but is not durable.
func (s *Store) Add(ctx context.Context, e core.Expense) error {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}
	if s.registry != nil && !s.registry.Contains(e.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}

	s.mu.Lock()
	if slices.ContainsFunc(s.items, func(x core.Expense) bool { return x.ID == e.ID }) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.items = append(s.items, e)
	err := s.persistLocked(ctx, log.OpAdd)
	snapshot := slices.Clone(s.items)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpAdd).
			WithExpense(e.ID, e.Title, e.Amount.Cents, e.Category).ToSlice()...)
	s.notify(ctx, Event{Kind: EventAdded, Expense: e, Snapshot: snapshot, Err: err})
	return err
}

// Delete removes the expense with the given id. An unknown id is a no-op
// and reports false.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.items, func(x core.Expense) bool { return x.ID == id })
	if i < 0 {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Delete of unknown expense ignored", log.FieldExpenseID, id)
		return false, nil
	}
	removed := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	err := s.persistLocked(ctx, log.OpDelete)
	snapshot := slices.Clone(s.items)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	s.notify(ctx, Event{Kind: EventDeleted, Expense: removed, Snapshot: snapshot, Err: err})
	return true, err
}

// Clear empties the collection and removes the stored blob.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	count := len(s.items)
	s.items = nil
	var err error
	if derr := s.gateway.Delete(ctx, s.key); derr != nil {
		err = &PersistenceError{Op: log.OpClear, Key: s.key, Err: derr}
		s.logger.ErrorContext(ctx, "Failed to clear stored expenses",
			log.FieldKey, s.key, log.FieldError, derr, log.FieldErrorType, log.ErrorTypePersistence)
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expenses cleared", log.FieldOperation, log.OpClear, log.FieldCount, count)
	s.notify(ctx, Event{Kind: EventCleared, Snapshot: []core.Expense{}, Err: err})
	return err
}

// List returns a snapshot of the collection in insertion order.
func (s *Store) List() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the expense with the given id.
func (s *Store) Get(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// persistLocked writes the whole collection. Callers hold s.mu.
func (s *Store) persistLocked(ctx context.Context, op string) error {
	data, err := Encode(s.items)
	if err == nil {
		err = s.gateway.Write(ctx, s.key, data)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expenses",
			log.FieldOperation, op, log.FieldKey, s.key, log.FieldError, err,
			log.FieldErrorType, log.ErrorTypePersistence)
		return &PersistenceError{Op: op, Key: s.key, Err: err}
	}
	return nil
}

// Subscribe registers fn for mutation events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ctx, ev)
	}
}
