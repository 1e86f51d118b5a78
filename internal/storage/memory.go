package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xaenox/vida-bot/internal/models"
)

// MemoryStorage keeps everything in process memory. Used by tests and local
// runs without a database. Slices preserve insertion order, which is the
// tie-break for time-ordered queries.
type MemoryStorage struct {
	mu           sync.RWMutex
	events       map[string]*models.InboundEvent
	appointments []*models.Appointment
	reminders    []*models.Reminder
	transactions []*models.Transaction
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		events: make(map[string]*models.InboundEvent),
	}
}

func (s *MemoryStorage) SaveEvent(ctx context.Context, event *models.InboundEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *MemoryStorage) MarkEventProcessed(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, exists := s.events[eventID]
	if !exists {
		return fmt.Errorf("event not found")
	}
	event.Processed = true
	return nil
}

// GetEvent is a test convenience not part of the Storage interface.
func (s *MemoryStorage) GetEvent(eventID string) (*models.InboundEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, exists := s.events[eventID]
	if !exists {
		return nil, false
	}
	copied := *event
	return &copied, true
}

func (s *MemoryStorage) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = time.Now()
	}
	copied := *appointment
	s.appointments = append(s.appointments, &copied)
	return nil
}

func (s *MemoryStorage) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}
	copied := *reminder
	s.reminders = append(s.reminders, &copied)
	return nil
}

func (s *MemoryStorage) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	copied := *transaction
	s.transactions = append(s.transactions, &copied)
	return nil
}

func (s *MemoryStorage) UpcomingAppointments(ctx context.Context, senderID string, from time.Time, limit int) ([]*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Appointment
	for _, appointment := range s.appointments {
		if appointment.SenderID != senderID || appointment.StartTime.Before(from) {
			continue
		}
		copied := *appointment
		result = append(result, &copied)
	}

	// Stable sort keeps insertion order for equal start times.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStorage) AppointmentsBySender(ctx context.Context, senderID string, limit int) ([]*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Appointment
	for _, appointment := range s.appointments {
		if appointment.SenderID != senderID {
			continue
		}
		copied := *appointment
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStorage) RemindersBySender(ctx context.Context, senderID string, limit int) ([]*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Reminder
	for _, reminder := range s.reminders {
		if reminder.SenderID != senderID {
			continue
		}
		copied := *reminder
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueAt.Before(result[j].DueAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStorage) TransactionsBySender(ctx context.Context, senderID string, limit int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Transaction
	for _, transaction := range s.transactions {
		if transaction.SenderID != senderID {
			continue
		}
		copied := *transaction
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
