package webhook

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/vida-bot/internal/classifier"
	"github.com/xaenox/vida-bot/internal/models"
	"github.com/xaenox/vida-bot/internal/storage"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestDispatcher(store storage.Storage) *Dispatcher {
	d := NewDispatcher(store, zap.NewNop())
	d.now = func() time.Time { return testNow }
	return d
}

func newTestEvent(text string) *models.InboundEvent {
	return &models.InboundEvent{
		ID:         uuid.New().String(),
		EventType:  "messages.upsert",
		SenderID:   "+5511999999999",
		RawText:    text,
		ReceivedAt: testNow,
	}
}

func classify(text string) models.Intent {
	c := classifier.NewKeywordClassifierWithClock(func() time.Time { return testNow })
	return c.Classify(text)
}

func TestDispatchReminderRoundTrip(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	event := newTestEvent("lembrete pagar conta 10/09")
	intent := classify(event.RawText)
	require.Equal(t, models.IntentCreateReminder, intent.Kind)

	result := d.Dispatch(context.Background(), intent, event)
	require.NoError(t, result.Err)
	assert.NotEmpty(t, result.RecordID)
	assert.Contains(t, result.Reply, "Lembrete criado")

	reminders, err := store.RemindersBySender(context.Background(), event.SenderID, 10)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, event.ID, reminders[0].SourceEventID)
	assert.Equal(t, event.SenderID, reminders[0].SenderID)
	assert.Equal(t, "pagar conta", reminders[0].Title)
	assert.Equal(t, time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC), reminders[0].DueAt)
}

func TestDispatchReminderWithoutDateDefaultsTomorrow(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	event := newTestEvent("lembrete pagar conta")
	intent := classify(event.RawText)
	require.Equal(t, models.IntentCreateReminder, intent.Kind)

	result := d.Dispatch(context.Background(), intent, event)
	require.NoError(t, result.Err)

	reminders, err := store.RemindersBySender(context.Background(), event.SenderID, 10)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, event.ID, reminders[0].SourceEventID)
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), reminders[0].DueAt)
}

func TestDispatchTransactionScenario(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	event := newTestEvent("despesa 45.80 uber")
	intent := classify(event.RawText)
	require.Equal(t, models.IntentRecordTransaction, intent.Kind)

	result := d.Dispatch(context.Background(), intent, event)
	require.NoError(t, result.Err)
	assert.Contains(t, result.Reply, "Despesa registrada")

	transactions, err := store.TransactionsBySender(context.Background(), event.SenderID, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "-45.80", transactions[0].Amount.StringFixed(2))
	assert.Equal(t, models.DefaultCategory, transactions[0].Category)
	assert.Equal(t, event.ID, transactions[0].SourceEventID)
}

func TestDispatchIncompleteCommands(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"appointment without time", "agendar dentista"},
		{"transaction without amount", "despesa mercado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			d := newTestDispatcher(store)

			event := newTestEvent(tt.text)
			result := d.Dispatch(context.Background(), classify(event.RawText), event)

			assert.True(t, errors.Is(result.Err, ErrIncompleteCommand))
			assert.NotEmpty(t, result.Reply, "sender must be prompted for the missing field")
			assert.Empty(t, result.RecordID)

			appointments, _ := store.AppointmentsBySender(context.Background(), event.SenderID, 10)
			reminders, _ := store.RemindersBySender(context.Background(), event.SenderID, 10)
			transactions, _ := store.TransactionsBySender(context.Background(), event.SenderID, 10)
			assert.Empty(t, appointments)
			assert.Empty(t, reminders)
			assert.Empty(t, transactions)
		})
	}
}

func TestDispatchAppointmentPlaceholderTitle(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	// Time resolvable but no title left after extraction.
	event := newTestEvent("agendar 12/09 14:00")
	result := d.Dispatch(context.Background(), classify(event.RawText), event)
	require.NoError(t, result.Err)

	appointments, err := store.AppointmentsBySender(context.Background(), event.SenderID, 10)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "agendar 12/09 14:00", appointments[0].Title)
}

func TestDispatchUnrecognized(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	event := newTestEvent("bom dia!")
	result := d.Dispatch(context.Background(), classify(event.RawText), event)

	require.NoError(t, result.Err)
	assert.Equal(t, models.IntentUnrecognized, result.Kind)
	assert.Contains(t, result.Reply, "Comandos disponíveis")
	assert.Empty(t, result.RecordID)
}

func TestDispatchQueryUpcoming(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)
	ctx := context.Background()
	sender := "+5511999999999"

	add := func(title string, start time.Time, owner string) {
		require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
			ID:        uuid.New().String(),
			SenderID:  owner,
			Title:     title,
			StartTime: start,
		}))
	}

	add("sexta", testNow.Add(96*time.Hour), sender)
	add("amanha-a", testNow.Add(24*time.Hour), sender)
	add("amanha-b", testNow.Add(24*time.Hour), sender)
	add("ontem", testNow.Add(-24*time.Hour), sender)
	add("de outra pessoa", testNow.Add(24*time.Hour), "+5511888888888")
	for i := 0; i < 4; i++ {
		add("lotado", testNow.Add(time.Duration(200+i)*time.Hour), sender)
	}

	event := newTestEvent("próximos")
	result := d.Dispatch(ctx, classify(event.RawText), event)
	require.NoError(t, result.Err)

	// 5 entries, time ascending, ties in insertion order, other users and
	// past appointments excluded.
	assert.Contains(t, result.Reply, "Seus próximos compromissos:")
	assert.NotContains(t, result.Reply, "ontem")
	assert.NotContains(t, result.Reply, "de outra pessoa")
	aIdx := strings.Index(result.Reply, "amanha-a")
	bIdx := strings.Index(result.Reply, "amanha-b")
	sIdx := strings.Index(result.Reply, "sexta")
	require.True(t, aIdx >= 0 && bIdx >= 0 && sIdx >= 0)
	assert.Less(t, aIdx, bIdx)
	assert.Less(t, bIdx, sIdx)
	// 8 future appointments exist, only 5 listed.
	assert.Equal(t, 5, strings.Count(result.Reply, "\n"))
}

func TestDispatchQueryUpcomingEmpty(t *testing.T) {
	store := storage.NewMemoryStorage()
	d := newTestDispatcher(store)

	event := newTestEvent("agenda")
	result := d.Dispatch(context.Background(), classify(event.RawText), event)
	require.NoError(t, result.Err)
	assert.Contains(t, result.Reply, "não tem compromissos")
}

func TestDispatchStorageFailure(t *testing.T) {
	store := &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
	d := newTestDispatcher(store)

	event := newTestEvent("lembrete pagar conta 10/09")
	result := d.Dispatch(context.Background(), classify(event.RawText), event)

	assert.True(t, errors.Is(result.Err, ErrStorageUnavailable))
	assert.NotEmpty(t, result.Reply)
	assert.Empty(t, result.RecordID)
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (f *failingStorage) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	return errors.New("connection refused")
}
