package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/altvest/perfstat/internal/forecast"
)

// ForecastHandler provides HTTP endpoints for the unified forecast
// timeline.
type ForecastHandler struct {
	forecasts       *forecast.Service
	defaultScenario string
	horizonDays     int
}

// NewForecastHandler creates a new forecast API handler.
func NewForecastHandler(forecasts *forecast.Service, defaultScenario string, horizonDays int) *ForecastHandler {
	return &ForecastHandler{
		forecasts:       forecasts,
		defaultScenario: defaultScenario,
		horizonDays:     horizonDays,
	}
}

// GetUnifiedForecasts handles GET /api/v1/forecasts/unified.
func (h *ForecastHandler) GetUnifiedForecasts(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	flows, err := h.forecasts.Unified(r.Context(), q)
	if err != nil {
		slog.Error("failed to build unified forecasts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, flows)
}

// GetDailyAggregates handles GET /api/v1/forecasts/daily.
func (h *ForecastHandler) GetDailyAggregates(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	days, err := h.forecasts.DailyAggregates(r.Context(), q)
	if err != nil {
		slog.Error("failed to build daily aggregates", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// queryParams assembles the forecast query from URL parameters. The
// manual and pacing layers default to enabled; start defaults to asOf
// and end to asOf plus the configured horizon.
func (h *ForecastHandler) queryParams(w http.ResponseWriter, r *http.Request) (forecast.Query, bool) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return forecast.Query{}, false
	}

	q := forecast.Query{
		Start:         asOf,
		End:           asOf.AddDate(0, 0, h.horizonDays),
		AsOf:          asOf,
		IncludeManual: boolParam(r, "manual", true),
		IncludePacing: boolParam(r, "pacing", true),
		Scenario:      h.defaultScenario,
	}

	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start format, expected YYYY-MM-DD")
			return forecast.Query{}, false
		}
		q.Start = start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end format, expected YYYY-MM-DD")
			return forecast.Query{}, false
		}
		q.End = end
	}
	if q.End.Before(q.Start) {
		writeError(w, http.StatusBadRequest, "end precedes start")
		return forecast.Query{}, false
	}
	if scenario := r.URL.Query().Get("scenario"); scenario != "" {
		q.Scenario = scenario
	}

	return q, true
}

func boolParam(r *http.Request, key string, defaultVal bool) bool {
	switch r.URL.Query().Get(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return defaultVal
	}
}
