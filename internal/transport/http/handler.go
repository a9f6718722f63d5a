package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"capfinder/internal/capitals/models"
	"capfinder/internal/capitals/normalize"
	"capfinder/internal/capitals/store"
	"capfinder/pkg/platform/httputil"
)

// Engine is the resolution engine consumed by the HTTP shell.
type Engine interface {
	ResolveExact(ctx context.Context, country string) (string, error)
	SuggestLocal(ctx context.Context, country string) []models.MatchCandidate
	ConfirmAndSave(ctx context.Context, country, capital string) (*models.SaveResult, error)
}

// Handler is the thin HTTP layer. It delegates to the resolution engine and
// maps its outcomes onto JSON views; no business logic lives here.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler over the given engine.
func NewHandler(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

type capitalRequest struct {
	Country string `json:"country"`
}

type capitalResponse struct {
	Country string `json:"country"`
	Capital string `json:"capital"`
}

type suggestionsResponse struct {
	Country     string                  `json:"country"`
	Suggestions []models.MatchCandidate `json:"suggestions"`
}

// handleCapital resolves a country to its capital. A miss falls through to
// local fuzzy suggestions; this path never touches the network.
func (h *Handler) handleCapital(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[capitalRequest](w, r, h.logger)
	if !ok {
		return
	}

	capital, err := h.engine.ResolveExact(r.Context(), req.Country)
	if err == nil {
		httputil.WriteJSON(w, http.StatusOK, capitalResponse{
			Country: normalize.Display(req.Country),
			Capital: capital,
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, err)
		return
	}

	if suggestions := h.engine.SuggestLocal(r.Context(), req.Country); len(suggestions) > 0 {
		httputil.WriteJSON(w, http.StatusOK, suggestionsResponse{
			Country:     normalize.Display(req.Country),
			Suggestions: suggestions,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":   "unknown_country",
		"country": normalize.Display(req.Country),
	})
}

type saveRequest struct {
	Country string `json:"country"`
	Capital string `json:"capital"`
}

// handleSave validates and persists a new country-capital pair. The engine's
// three-way outcome maps to three distinct responses. POST /confirm reuses
// this handler: confirming a suggested name is just a second save submission.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[saveRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.engine.ConfirmAndSave(r.Context(), req.Country, req.Capital)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	switch result.Status {
	case models.SaveStatusSaved:
		httputil.WriteJSON(w, http.StatusCreated, capitalResponse{
			Country: result.Entry.Country,
			Capital: result.Entry.Capital,
		})
	case models.SaveStatusNeedsDisambiguation:
		httputil.WriteJSON(w, http.StatusConflict, struct {
			Status      models.SaveStatus       `json:"status"`
			Country     string                  `json:"country"`
			Suggestions []models.MatchCandidate `json:"suggestions"`
		}{
			Status:      result.Status,
			Country:     normalize.Display(req.Country),
			Suggestions: result.Suggestions,
		})
	case models.SaveStatusInvalidCountry:
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "invalid_country",
			"country": normalize.Display(req.Country),
		})
	default:
		h.logger.ErrorContext(r.Context(), "unhandled save status", "status", result.Status)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
	}
}
