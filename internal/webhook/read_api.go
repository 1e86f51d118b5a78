package webhook

import (
	"net/http"
	"strconv"
)

// The read API serves the dashboard's Schedule, Reminders and Finance pages.
// It only ever queries; core state is mutated exclusively by the dispatcher.

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	sender, limit, ok := h.listParams(w, r)
	if !ok {
		return
	}

	appointments, err := h.storage.AppointmentsBySender(r.Context(), sender, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to query appointments")
		return
	}
	h.JSON(w, http.StatusOK, map[string]interface{}{"appointments": appointments})
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	sender, limit, ok := h.listParams(w, r)
	if !ok {
		return
	}

	reminders, err := h.storage.RemindersBySender(r.Context(), sender, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to query reminders")
		return
	}
	h.JSON(w, http.StatusOK, map[string]interface{}{"reminders": reminders})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	sender, limit, ok := h.listParams(w, r)
	if !ok {
		return
	}

	transactions, err := h.storage.TransactionsBySender(r.Context(), sender, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to query transactions")
		return
	}
	h.JSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

func (h *Handler) listParams(w http.ResponseWriter, r *http.Request) (sender string, limit int, ok bool) {
	sender = r.URL.Query().Get("sender")
	if sender == "" {
		h.Error(w, http.StatusBadRequest, "missing sender parameter")
		return "", 0, false
	}

	limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.Error(w, http.StatusBadRequest, "invalid limit parameter")
			return "", 0, false
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}
	return sender, limit, true
}
