package httpapi

import (
	"context"
	"net/http"

	"github.com/rosvit/journal-backend/internal/logging"
	"github.com/rosvit/journal-backend/internal/server/models"
	"github.com/rosvit/journal-backend/internal/server/services"
)

// JournalService is the event type and entry surface the handlers need.
type JournalService interface {
	CreateEventType(ctx context.Context, userID, name string, tags []string) (*models.EventType, error)
	GetEventType(ctx context.Context, userID, id string) (*models.EventType, error)
	ListEventTypes(ctx context.Context, userID string) ([]*models.EventType, error)
	UpdateEventType(ctx context.Context, userID, id, name string, tags []string) error
	DeleteEventType(ctx context.Context, userID, id string) error

	CreateEntry(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	GetEntry(ctx context.Context, userID, id string) (*models.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry *models.JournalEntry) error
	DeleteEntry(ctx context.Context, userID, id string) error
	Search(ctx context.Context, userID string, filter *models.SearchFilter) (*services.SearchResult, error)
}

type JournalHandler struct {
	service JournalService
	logger  logging.Logger
}

func NewJournalHandler(service JournalService, logger logging.Logger) *JournalHandler {
	return &JournalHandler{service: service, logger: logger}
}

// callerID returns the authenticated user's id. The authentication middleware
// guarantees it is present on every protected route.
func callerID(r *http.Request) string {
	return IdentityFromContext(r.Context()).UserID
}

func (h *JournalHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req eventTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	eventType, err := h.service.CreateEventType(r.Context(), callerID(r), req.Name, req.Tags)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, idResponse{ID: eventType.ID})
}

func (h *JournalHandler) GetEventType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	eventType, err := h.service.GetEventType(r.Context(), callerID(r), id)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, eventType)
}

func (h *JournalHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	eventTypes, err := h.service.ListEventTypes(r.Context(), callerID(r))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, eventTypes)
}

func (h *JournalHandler) UpdateEventType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	var req eventTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	err = h.service.UpdateEventType(r.Context(), callerID(r), id, req.Name, req.Tags)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *JournalHandler) DeleteEventType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	if err := h.service.DeleteEventType(r.Context(), callerID(r), id); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	entry := &models.JournalEntry{
		UserID:      callerID(r),
		EventTypeID: req.EventTypeID,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.CreatedAt != nil {
		entry.CreatedAt = *req.CreatedAt
	}

	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, idResponse{ID: created.ID})
}

func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	entry, err := h.service.GetEntry(r.Context(), callerID(r), id)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, entry)
}

func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	entry := &models.JournalEntry{
		ID:          id,
		UserID:      callerID(r),
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.service.UpdateEntry(r.Context(), entry); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	if err := h.service.DeleteEntry(r.Context(), callerID(r), id); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *JournalHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchFilter(r)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	result, err := h.service.Search(r.Context(), callerID(r), filter)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, result)
}
