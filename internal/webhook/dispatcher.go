package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/vida-bot/internal/metrics"
	"github.com/xaenox/vida-bot/internal/models"
	"github.com/xaenox/vida-bot/internal/storage"
)

// defaultUpcomingLimit caps how many appointments a "próximos" query returns.
const defaultUpcomingLimit = 5

const helpText = `Não entendi 🤔 Comandos disponíveis:
• agendar <compromisso> <data> <hora>
• lembrete <descrição> <data>
• despesa <valor> <descrição>
• receita <valor> <descrição>
• próximos — ver os próximos compromissos`

// DispatchResult is what an intent turned into: an optional created record,
// an optional reply for the sender, and the error kind when the command
// could not be completed. Err never aborts the HTTP acknowledgment.
type DispatchResult struct {
	Kind     models.IntentKind
	Reply    string
	RecordID string
	Err      error
}

// Dispatcher turns classified intents into storage mutations or queries.
// Every created record is owned by the event's sender and carries the event
// ID as a back-reference; the owner is never taken from intent parameters.
type Dispatcher struct {
	storage       storage.Storage
	logger        *zap.Logger
	now           func() time.Time
	upcomingLimit int
}

func NewDispatcher(store storage.Storage, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		storage:       store,
		logger:        logger,
		now:           time.Now,
		upcomingLimit: defaultUpcomingLimit,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, intent models.Intent, event *models.InboundEvent) DispatchResult {
	switch intent.Kind {
	case models.IntentScheduleAppointment:
		return d.dispatchAppointment(ctx, intent, event)
	case models.IntentCreateReminder:
		return d.dispatchReminder(ctx, intent, event)
	case models.IntentRecordTransaction:
		return d.dispatchTransaction(ctx, intent, event)
	case models.IntentQueryUpcoming:
		return d.dispatchUpcoming(ctx, event)
	default:
		return DispatchResult{Kind: models.IntentUnrecognized, Reply: helpText}
	}
}

func (d *Dispatcher) dispatchAppointment(ctx context.Context, intent models.Intent, event *models.InboundEvent) DispatchResult {
	result := DispatchResult{Kind: intent.Kind}

	if intent.Params.When == nil {
		metrics.DispatchErrors.WithLabelValues("incomplete_command").Inc()
		result.Err = fmt.Errorf("%w: missing date/time", ErrIncompleteCommand)
		result.Reply = "Para agendar, preciso da data e da hora. Exemplo: agendar dentista 12/09 14:00"
		return result
	}

	title := intent.Params.Title
	if title == "" {
		title = placeholderTitle(event.RawText, "Compromisso")
	}

	appointment := &models.Appointment{
		ID:            uuid.New().String(),
		SenderID:      event.SenderID,
		Title:         title,
		StartTime:     *intent.Params.When,
		SourceEventID: event.ID,
	}

	if err := d.storage.CreateAppointment(ctx, appointment); err != nil {
		return d.storageFailure(result, err, "appointment", event)
	}

	result.RecordID = appointment.ID
	result.Reply = fmt.Sprintf("Agendado ✅ %s em %s", title, appointment.StartTime.Format("02/01/2006 às 15:04"))
	return result
}

func (d *Dispatcher) dispatchReminder(ctx context.Context, intent models.Intent, event *models.InboundEvent) DispatchResult {
	result := DispatchResult{Kind: intent.Kind}

	// Unlike appointments, a reminder without a parseable date is still
	// useful: it defaults to tomorrow morning.
	dueAt := d.defaultDue()
	if intent.Params.When != nil {
		dueAt = *intent.Params.When
	}

	title := intent.Params.Title
	if title == "" {
		title = placeholderTitle(event.RawText, "Lembrete")
	}

	reminder := &models.Reminder{
		ID:            uuid.New().String(),
		SenderID:      event.SenderID,
		Title:         title,
		DueAt:         dueAt,
		SourceEventID: event.ID,
	}

	if err := d.storage.CreateReminder(ctx, reminder); err != nil {
		return d.storageFailure(result, err, "reminder", event)
	}

	result.RecordID = reminder.ID
	result.Reply = fmt.Sprintf("Lembrete criado ✅ %s para %s", title, reminder.DueAt.Format("02/01/2006 às 15:04"))
	return result
}

// defaultDue is tomorrow 09:00 in the server's location.
func (d *Dispatcher) defaultDue() time.Time {
	now := d.now()
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, now.Location())
}

func (d *Dispatcher) dispatchTransaction(ctx context.Context, intent models.Intent, event *models.InboundEvent) DispatchResult {
	result := DispatchResult{Kind: intent.Kind}

	if intent.Params.Amount == nil {
		metrics.DispatchErrors.WithLabelValues("incomplete_command").Inc()
		result.Err = fmt.Errorf("%w: missing amount", ErrIncompleteCommand)
		result.Reply = "Não encontrei o valor. Exemplo: despesa 45,80 mercado"
		return result
	}

	category := intent.Params.Category
	if category == "" {
		category = models.DefaultCategory
	}

	occurredAt := d.now()
	if intent.Params.When != nil {
		occurredAt = *intent.Params.When
	}

	transaction := &models.Transaction{
		ID:            uuid.New().String(),
		SenderID:      event.SenderID,
		Amount:        *intent.Params.Amount,
		Category:      category,
		Description:   intent.Params.Title,
		OccurredAt:    occurredAt,
		SourceEventID: event.ID,
	}

	if err := d.storage.CreateTransaction(ctx, transaction); err != nil {
		return d.storageFailure(result, err, "transaction", event)
	}

	result.RecordID = transaction.ID
	value := transaction.Amount.Abs().StringFixed(2)
	if transaction.Amount.IsNegative() {
		result.Reply = fmt.Sprintf("Despesa registrada ✅ R$ %s (%s)", value, category)
	} else {
		result.Reply = fmt.Sprintf("Receita registrada ✅ R$ %s (%s)", value, category)
	}
	return result
}

func (d *Dispatcher) dispatchUpcoming(ctx context.Context, event *models.InboundEvent) DispatchResult {
	result := DispatchResult{Kind: models.IntentQueryUpcoming}

	appointments, err := d.storage.UpcomingAppointments(ctx, event.SenderID, d.now(), d.upcomingLimit)
	if err != nil {
		return d.storageFailure(result, err, "upcoming query", event)
	}

	if len(appointments) == 0 {
		result.Reply = "Você não tem compromissos agendados 👍"
		return result
	}

	var b strings.Builder
	b.WriteString("Seus próximos compromissos:")
	for _, appointment := range appointments {
		b.WriteString(fmt.Sprintf("\n• %s — %s", appointment.StartTime.Format("02/01 15:04"), appointment.Title))
	}
	result.Reply = b.String()
	return result
}

func (d *Dispatcher) storageFailure(result DispatchResult, err error, operation string, event *models.InboundEvent) DispatchResult {
	metrics.DispatchErrors.WithLabelValues("storage_unavailable").Inc()
	d.logger.Error("Storage operation failed",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("event_id", event.ID),
		zap.String("sender_id", event.SenderID))
	result.Err = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	result.Reply = "Não consegui salvar agora, tente novamente em instantes."
	return result
}

// placeholderTitle derives a generic title from the raw message when
// extraction produced nothing.
func placeholderTitle(rawText, fallback string) string {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return fallback
	}
	runes := []rune(trimmed)
	if len(runes) > 40 {
		return string(runes[:40])
	}
	return trimmed
}
