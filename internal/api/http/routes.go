package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

const (
	queryLabels   = "labels"
	queryBaseline = "baseline"
)

// handler contains the HTTP handlers and shared dependencies for the REST API.
type handler struct {
	service domain.ReportService
	logger  *infra.Logger
}

func registerRoutes(router chi.Router, h *handler) {
	router.Get("/health", h.handleHealth)
	router.Get("/records", h.handleRecords)
	router.Get("/aggregate", h.handleAggregate)
	router.Get("/compare", h.handleCompare)
	router.Get("/summaries", h.handleSummaries)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *handler) labels(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	labels := domain.ParseList(r.URL.Query().Get(queryLabels))
	if len(labels) == 0 {
		h.writeError(w, http.StatusBadRequest, "missing required query parameter: labels")
		return nil, false
	}
	return labels, true
}

func (h *handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	labels, ok := h.labels(w, r)
	if !ok {
		return
	}
	records, err := h.service.Records(r.Context(), labels)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	labels, ok := h.labels(w, r)
	if !ok {
		return
	}
	rows, err := h.service.Aggregate(r.Context(), labels)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	labels, ok := h.labels(w, r)
	if !ok {
		return
	}
	baseline := domain.DefaultBaseline(r.URL.Query().Get(queryBaseline), labels)
	rows, err := h.service.Compare(r.Context(), baseline, labels)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *handler) handleSummaries(w http.ResponseWriter, r *http.Request) {
	labels, ok := h.labels(w, r)
	if !ok {
		return
	}
	rows, err := h.service.Summaries(r.Context(), labels)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNoLabels):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorf(r.Context(), "http %s failed: %v", r.URL.Path, err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message, Code: status})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
