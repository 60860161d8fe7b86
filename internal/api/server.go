package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ReportTrigger starts a report export on demand.
type ReportTrigger interface {
	Export(ctx context.Context, asOf time.Time) error
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, handler *Handler, forecasts *ForecastHandler, reports ReportTrigger, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/investments/{id}/performance", handler.GetInvestmentPerformance)
	mux.HandleFunc("GET /api/v1/portfolio/performance", handler.GetPortfolioPerformance)
	mux.HandleFunc("GET /api/v1/forecasts/unified", forecasts.GetUnifiedForecasts)
	mux.HandleFunc("GET /api/v1/forecasts/daily", forecasts.GetDailyAggregates)

	if reports != nil {
		generate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			asOf, ok := asOfParam(w, r)
			if !ok {
				return
			}
			if err := reports.Export(r.Context(), asOf); err != nil {
				slog.Error("failed to generate report", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to generate report")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "generated"})
		})
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/reports/generate", requireAuth(adminAPIKey, generate))
		} else {
			mux.Handle("POST /api/v1/reports/generate", generate)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
