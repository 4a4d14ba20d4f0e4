package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sync/atomic"

	"github.com/azybler/map_instructions/pkg/instructions"
	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/phrase"
	"github.com/azybler/map_instructions/pkg/roads"
)

const (
	maxBodyBytes = 4 << 20
	maxSteps     = 5000
)

// Highlighted token kinds for markup=html.
var htmlHighlight = []instructions.TokenKind{
	instructions.TokenWayName,
	instructions.TokenCode,
	instructions.TokenRotaryName,
	instructions.TokenDestination,
	instructions.TokenExitCode,
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	registry *instructions.Registry
	enricher *roads.Enricher
	messages *Messages

	requests     atomic.Uint64
	instructions atomic.Uint64
	skipped      atomic.Uint64
	enriched     atomic.Uint64
}

// NewHandlers creates handlers formatting with registry. enricher and
// messages may be nil, which disables road enrichment and localized error
// messages.
func NewHandlers(registry *instructions.Registry, enricher *roads.Enricher, messages *Messages) *Handlers {
	return &Handlers{
		registry: registry,
		enricher: enricher,
		messages: messages,
	}
}

// HandleInstructions handles POST /api/v1/instructions.
func (h *Handlers) HandleInstructions(w http.ResponseWriter, r *http.Request) {
	h.requests.Add(1)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req InstructionsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "")
		return
	}

	hook, ok := MarkupHook(req.Markup)
	if !ok {
		h.writeError(w, r, http.StatusBadRequest, "invalid_markup", "markup")
		return
	}
	total := 0
	for _, leg := range req.Legs {
		total += len(leg.Steps)
	}
	if total > maxSteps {
		h.writeError(w, r, http.StatusBadRequest, "too_many_steps", "legs")
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}
	in, err := h.registry.Get(locale)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	// One dictionary for the whole route, even if a reload lands mid-request.
	d := in.Dictionary()
	if d == nil {
		h.writeFailure(w, r, fmt.Errorf("%w: no dictionary for %q", phrase.ErrMissingResource, locale))
		return
	}

	legs, err := req.Maneuvers()
	if err != nil {
		if field := FieldOf(err); field != "" {
			h.writeError(w, r, http.StatusBadRequest, "invalid_step", field)
			return
		}
		h.writeFailure(w, r, err)
		return
	}
	if h.enricher != nil {
		for li := range legs {
			for si := range legs[li] {
				if h.enricher.Enrich(&legs[li][si]) {
					h.enriched.Add(1)
				}
			}
		}
	}

	out, err := FormatRoute(r.Context(), d, legs, hook)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	for _, leg := range out {
		for _, st := range leg.Steps {
			if st.Skipped {
				h.skipped.Add(1)
			} else {
				h.instructions.Add(1)
			}
		}
	}

	resp := InstructionsResponse{Locale: d.Locale.String(), Legs: out}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLocales handles GET /api/v1/locales.
func (h *Handlers) HandleLocales(w http.ResponseWriter, r *http.Request) {
	c := h.registry.Catalog()
	available, err := c.Locales()
	if err != nil {
		h.writeFailure(w, r, fmt.Errorf("%w: %w", phrase.ErrMissingResource, err))
		return
	}
	writeJSON(w, http.StatusOK, LocalesResponse{
		Default:   c.Fallback().String(),
		Available: tagStrings(available),
		Loaded:    tagStrings(h.registry.Loaded()),
	})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Stats())
}

// Stats returns the current counters.
func (h *Handlers) Stats() StatsResponse {
	st := StatsResponse{
		Requests:     h.requests.Load(),
		Instructions: h.instructions.Load(),
		Skipped:      h.skipped.Load(),
		Enriched:     h.enriched.Load(),
		Loaded:       tagStrings(h.registry.Loaded()),
	}
	if h.enricher != nil {
		st.Roads = len(h.enricher.Index().Roads())
		st.Segments = h.enricher.Index().Segments()
	}
	return st
}

// MarkupHook returns the token hook for a markup name: none for "" and
// "text", HTML escaping and highlighting for "html". ok is false for any
// other name.
func MarkupHook(markup string) (hook instructions.TokenHook, ok bool) {
	switch markup {
	case "", "text":
		return nil, true
	case "html":
		return instructions.HTMLHook(htmlHighlight...), true
	}
	return nil, false
}

// writeFailure maps an internal error to a response.
func (h *Handlers) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, phrase.ErrMissingTemplate), errors.Is(err, phrase.ErrMissingResource):
		logger.Error("Dictionary error", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "dictionary_error", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, r, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		logger.Error("Request failed", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "internal_error", "")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, field string) {
	msg := h.messages.Localize(r.Header.Get("Accept-Language"), code, map[string]any{
		"Field": field,
		"Limit": maxSteps,
	})
	writeJSON(w, status, ErrorResponse{Error: code, Field: field, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Write response failed", "error", err)
	}
}

func tagStrings[T fmt.Stringer](tags []T) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
