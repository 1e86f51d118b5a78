package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is stored when no category keyword is present in the text.
const DefaultCategory = "Uncategorized"

// Appointment is a scheduled event owned by the sender that created it.
type Appointment struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	Location      string    `json:"location,omitempty"`
	SourceEventID string    `json:"source_event_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Reminder is a future notification.
type Reminder struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	Title         string    `json:"title"`
	DueAt         time.Time `json:"due_at"`
	SourceEventID string    `json:"source_event_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Transaction is a financial movement. Negative amounts are expenses,
// positive amounts are income.
type Transaction struct {
	ID            string          `json:"id"`
	SenderID      string          `json:"sender_id"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceEventID string          `json:"source_event_id"`
	CreatedAt     time.Time       `json:"created_at"`
}
