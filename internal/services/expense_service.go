package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/export"
	"expenses/internal/log"
	"expenses/internal/store"
)

// EventPublisher announces store mutations to the outside world.
// *amqp.Client implements it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// ExpenseInput is raw form input for a new expense.
type ExpenseInput struct {
	Title    string
	Amount   string // decimal text, dot or comma separator
	Category string // empty selects the registry fallback
	Date     time.Time
	Notes    string
}

// ExpenseService is the entry point the presentation layer calls into. It
// owns no state beyond the store it wraps.
type ExpenseService struct {
	store       *store.Store
	registry    *core.Registry
	publisher   EventPublisher
	logger      *log.Logger
	unsubscribe func()
}

// NewExpenseService wires st to registry and, when publisher is non-nil,
// forwards every store mutation to it.
func NewExpenseService(st *store.Store, registry *core.Registry, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Discard()
	}
	if registry == nil {
		registry = core.DefaultRegistry()
	}
	s := &ExpenseService{
		store:     st,
		registry:  registry,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
	if publisher != nil {
		s.unsubscribe = st.Subscribe(s.publish)
	}
	return s
}

// AddExpense validates input and appends the resulting expense. When the
// store reports a *store.PersistenceError the returned expense was still
// added.
func (s *ExpenseService) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	amount, err := core.ParseMoney(in.Amount)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "amount", Err: err}
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = s.registry.Fallback().Name
	}

	e, err := core.NewExpense(in.Title, amount, category, in.Date, in.Notes)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.store.Add(ctx, e); err != nil {
		var perr *store.PersistenceError
		if errors.As(err, &perr) {
			return e, err
		}
		return core.Expense{}, err
	}
	return e, nil
}

// DeleteExpense removes the expense with id, reporting whether it existed.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

// ClearAll removes every expense and the stored data.
func (s *ExpenseService) ClearAll(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// ListExpenses runs q over the current snapshot.
func (s *ExpenseService) ListExpenses(q core.Query) []core.Expense {
	return q.Apply(s.store.List())
}

// MonthOverview summarizes the month containing ref.
func (s *ExpenseService) MonthOverview(ref time.Time) core.MonthOverview {
	return core.Summarize(s.store.List(), ref, s.registry)
}

// Categories returns the registry in display order.
func (s *ExpenseService) Categories() []core.Category {
	return s.registry.All()
}

func (s *ExpenseService) Registry() *core.Registry {
	return s.registry
}

// Export writes the current snapshot through every exporter concurrently.
func (s *ExpenseService) Export(ctx context.Context, exporters ...export.Exporter) error {
	if len(exporters) == 0 {
		return nil
	}
	snapshot := s.store.List()
	if err := export.All(ctx, snapshot, exporters...); err != nil {
		s.logger.ErrorContext(ctx, "Export failed",
			log.FieldOperation, log.OpExport, log.FieldError, err, log.FieldErrorType, log.ErrorTypeExport)
		return fmt.Errorf("export expenses: %w", err)
	}
	s.logger.InfoContext(ctx, "Export completed",
		log.FieldOperation, log.OpExport, log.FieldCount, len(snapshot))
	return nil
}

// publish forwards ev. Failures are logged and never reach the caller of
// the mutation.
func (s *ExpenseService) publish(ctx context.Context, ev store.Event) {
	msg := eventMessage(ev)
	if err := s.publisher.PublishExpenseEvent(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish expense event",
			log.FieldOperation, log.OpPublish,
			log.FieldEvent, msg.Kind,
			log.FieldExpenseID, msg.ID,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeNetwork)
	}
}

func eventMessage(ev store.Event) *amqp.ExpenseEventMessage {
	msg := amqp.NewExpenseEventMessage(string(ev.Kind))
	msg.Count = len(ev.Snapshot)
	if ev.Kind == store.EventCleared {
		return msg
	}
	e := ev.Expense
	date := e.Date
	msg.ID = e.ID
	msg.Title = e.Title
	msg.AmountCents = e.Amount.Cents
	msg.Category = e.Category
	msg.Date = &date
	return msg
}

// Close detaches the service from the store. The publisher is owned by
// whoever created it and is left open.
func (s *ExpenseService) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	return nil
}
