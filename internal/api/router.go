package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"creditd/internal/api/httpx"
	"creditd/internal/auth"
	"creditd/internal/config"
	"creditd/internal/metrics"
	"creditd/internal/middleware"
	"creditd/internal/ratelimit"
	repo "creditd/internal/repository"
	"creditd/internal/services"
)

//go:embed index.html
var indexPage []byte

func NewRouter(cfg config.Config, ledger *services.LedgerService, keys *auth.Keyring, gov *ratelimit.Governor, stats ratelimit.Stats) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.Throttle(cfg.ThrottleRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	requireKey := middleware.RequireKey(keys)
	rateLimit := middleware.RateLimit(gov, stats)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// read path: open, creates on first sight
	r.Get("/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := ledger.GetOrCreate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "store_error", "internal error", nil)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, rec)
	})

	// mutate path: governor first, then the shared-secret gate
	r.With(rateLimit, requireKey).Put("/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		delta := parseDelta(r.Body)
		rec, err := ledger.Adjust(r.Context(), chi.URLParam(r, "id"), delta)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found", nil)
		case errors.Is(err, services.ErrInsufficientCredits):
			httpx.WriteError(w, http.StatusPaymentRequired, "insufficient_credits", "Insufficient credits", nil)
		case err != nil:
			httpx.WriteError(w, http.StatusInternalServerError, "store_error", "internal error", nil)
		default:
			httpx.WriteJSON(w, http.StatusOK, rec)
		}
	})

	// key-gated reads, kept for the bot integration
	r.Route("/api/user", func(r chi.Router) {
		r.Use(requireKey)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			recs, err := ledger.List(r.Context())
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", "internal error", nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, recs)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			rec, err := ledger.GetOrCreate(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "store_error", "internal error", nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, rec)
		})
	})

	return r
}

// parseDelta reads {"value": n} from the body. An absent body, unparseable
// JSON or a missing/non-integer field all collapse to a zero delta rather
// than an error.
func parseDelta(body io.Reader) int64 {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return 0
	}
	var req struct {
		Value *int64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.Value == nil {
		return 0
	}
	return *req.Value
}
