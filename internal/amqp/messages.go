package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseEventMessage announces a change to the expense collection.
// Cleared events carry only Kind, Count and Timestamp.
type ExpenseEventMessage struct {
	Kind        string     `json:"kind"`
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	AmountCents int64      `json:"amount_cents,omitempty"`
	Category    string     `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Count       int        `json:"count"` // collection size after the change
	Timestamp   time.Time  `json:"timestamp"`
}

// NewExpenseEventMessage stamps a message with the current time.
func NewExpenseEventMessage(kind string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
