package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/altvest/perfstat/internal/investment"
)

// Handler provides HTTP endpoints for performance metrics.
type Handler struct {
	performance *investment.Service
}

// NewHandler creates a new performance API handler.
func NewHandler(performance *investment.Service) *Handler {
	return &Handler{performance: performance}
}

// GetInvestmentPerformance handles GET /api/v1/investments/{id}/performance.
func (h *Handler) GetInvestmentPerformance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	metrics, err := h.performance.Performance(r.Context(), id, asOf)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			writeError(w, http.StatusNotFound, "investment not found")
			return
		}
		slog.Error("failed to compute investment performance", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// GetPortfolioPerformance handles GET /api/v1/portfolio/performance.
func (h *Handler) GetPortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}

	method := investment.AggregationWeighted
	switch r.URL.Query().Get("method") {
	case "", string(investment.AggregationWeighted):
	case string(investment.AggregationTrue):
		method = investment.AggregationTrue
	default:
		writeError(w, http.StatusBadRequest, "method must be weighted or true")
		return
	}

	metrics, err := h.performance.PortfolioPerformance(r.Context(), asOf, method)
	if err != nil {
		slog.Error("failed to compute portfolio performance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// asOfParam parses the optional as_of query parameter, defaulting to
// the current UTC date.
func asOfParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return asOf, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
