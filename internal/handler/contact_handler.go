package handler

import (
	"net/http"

	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/rs/zerolog"
)

// ContactHandler serves the contact form.
type ContactHandler struct {
	contact service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contact service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger.With().Str("handler", "contact").Logger(),
	}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.contact.Submit(r.Context(), &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
