package storage

import (
	"context"
	"time"

	"github.com/xaenox/vida-bot/internal/models"
)

type Storage interface {
	EventStorage

	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	// UpcomingAppointments returns the sender's appointments starting at or
	// after from, ordered by start time ascending with insertion order as
	// the tie-break.
	UpcomingAppointments(ctx context.Context, senderID string, from time.Time, limit int) ([]*models.Appointment, error)

	AppointmentsBySender(ctx context.Context, senderID string, limit int) ([]*models.Appointment, error)
	RemindersBySender(ctx context.Context, senderID string, limit int) ([]*models.Reminder, error)
	TransactionsBySender(ctx context.Context, senderID string, limit int) ([]*models.Transaction, error)

	Close() error
}

type EventStorage interface {
	SaveEvent(ctx context.Context, event *models.InboundEvent) error
	MarkEventProcessed(ctx context.Context, eventID string) error
}
