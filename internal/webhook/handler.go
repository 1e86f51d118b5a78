package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/vida-bot/internal/classifier"
	"github.com/xaenox/vida-bot/internal/metrics"
	"github.com/xaenox/vida-bot/internal/models"
	"github.com/xaenox/vida-bot/internal/storage"
)

// maxBodySize caps webhook request bodies at 1MB.
const maxBodySize = 1 << 20

// Sender delivers a text message back to the originating chat.
type Sender interface {
	SendText(ctx context.Context, recipient, text string) error
}

// Handler receives Evolution API callbacks and drives the pipeline:
// log the event, classify the message, dispatch the intent, reply.
type Handler struct {
	storage    storage.Storage
	classifier classifier.Classifier
	dispatcher *Dispatcher
	sender     Sender
	logger     *zap.Logger
}

func NewHandler(store storage.Storage, clf classifier.Classifier, dispatcher *Dispatcher, sender Sender, logger *zap.Logger) *Handler {
	return &Handler{
		storage:    store,
		classifier: clf,
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// HandleWebhook processes one provider callback. Once an InboundEvent could
// be constructed the provider always gets 200 {"success":true}, whatever
// happens downstream; 500 is reserved for bodies that never became an event.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		metrics.MalformedPayloads.Inc()
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		h.Error(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.MalformedPayloads.Inc()
		h.logger.Error("Malformed webhook payload", zap.Error(err))
		h.Error(w, http.StatusInternalServerError, "invalid JSON payload")
		return
	}
	if payload.Event == "" {
		metrics.MalformedPayloads.Inc()
		h.logger.Error("Webhook payload missing event field")
		h.Error(w, http.StatusInternalServerError, "missing event field")
		return
	}

	metrics.EventsReceived.WithLabelValues(payload.Event).Inc()

	var message *models.MessagePayload
	if payload.Data != nil {
		message = payload.Data.Message
	}
	text, source := message.Text()

	event := &models.InboundEvent{
		ID:           uuid.New().String(),
		InstanceName: payload.Instance,
		EventType:    payload.Event,
		SenderID:     payload.Data.Sender(),
		RawText:      text,
		RawPayload:   body,
		ReceivedAt:   time.Now(),
	}

	h.logger.Info("Received webhook",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("instance", event.InstanceName),
		zap.String("sender_id", event.SenderID),
		zap.String("text_source", string(source)))

	// The event is logged exactly once, before dispatch, and a persistence
	// failure never aborts the acknowledgment.
	if err := h.storage.SaveEvent(ctx, event); err != nil {
		metrics.EventLogFailures.Inc()
		h.logger.Error("Failed to persist inbound event",
			zap.Error(err),
			zap.String("event_id", event.ID))
	}

	if payload.Event == "messages.upsert" && message != nil {
		h.process(ctx, event)
	}

	h.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) process(ctx context.Context, event *models.InboundEvent) {
	intent := h.classifier.Classify(event.RawText)
	metrics.IntentsClassified.WithLabelValues(string(intent.Kind)).Inc()

	result := h.dispatcher.Dispatch(ctx, intent, event)
	if result.Err != nil {
		h.logger.Warn("Dispatch did not complete",
			zap.Error(result.Err),
			zap.String("event_id", event.ID),
			zap.String("intent", string(result.Kind)))
	}

	if err := h.storage.MarkEventProcessed(ctx, event.ID); err != nil {
		h.logger.Warn("Failed to mark event processed",
			zap.Error(err),
			zap.String("event_id", event.ID))
	}

	if result.Reply == "" || event.SenderID == "" {
		return
	}
	if err := h.sender.SendText(ctx, event.SenderID, result.Reply); err != nil {
		metrics.OutboundMessages.WithLabelValues("failed").Inc()
		h.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("sender_id", event.SenderID))
		return
	}
	metrics.OutboundMessages.WithLabelValues("sent").Inc()
}
