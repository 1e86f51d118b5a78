package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntentKind is the classified meaning of an inbound message.
type IntentKind string

const (
	IntentScheduleAppointment IntentKind = "schedule_appointment"
	IntentCreateReminder      IntentKind = "create_reminder"
	IntentRecordTransaction   IntentKind = "record_transaction"
	IntentQueryUpcoming       IntentKind = "query_upcoming"
	IntentUnrecognized        IntentKind = "unrecognized"
)

// IntentParams holds the best-effort parameters extracted alongside a
// classification. Any field may be empty; the dispatcher decides what is
// required per intent.
type IntentParams struct {
	Title    string           `json:"title,omitempty"`
	When     *time.Time       `json:"when,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Category string           `json:"category,omitempty"`
}

// Intent is derived per InboundEvent and never persisted on its own.
type Intent struct {
	Kind   IntentKind   `json:"kind"`
	Params IntentParams `json:"params"`
}
