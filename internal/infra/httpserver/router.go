package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application/analysis"
	appusage "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application/usage"
	domai "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/middleware"
)

type Router struct {
	svc      *appanalysis.Service
	governor *appusage.Governor
}

func NewRouter(svc *appanalysis.Service, governor *appusage.Governor, checkers map[string]middleware.HealthChecker, apiKeys map[string]string) http.Handler {
	r := &Router{svc: svc, governor: governor}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(100, 50))
	if len(apiKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(apiKeys))
	}

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze/async", r.wrap(r.handleAnalyzeAsync))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/analyses/{id}/diagnostics", r.wrap(r.handleDiagnostics))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/usage/{provider}", r.wrap(r.handleUsage))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequestError
			if errors.As(err, &bad) || errors.Is(err, domain.ErrEmptyRequest) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func tenantFrom(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", badRequestError{msg: err.Error()}
	}
	return tenant, nil
}

func decodeRequest(req *http.Request) (domain.AnalysisRequest, error) {
	var body domain.AnalysisRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return body, badRequestError{msg: "invalid request body: " + err.Error()}
	}
	if err := middleware.ValidateAssetURL(body.VideoAssetURL); err != nil {
		return body, badRequestError{msg: err.Error()}
	}
	return body, nil
}

// POST /v1/{tenant}/analyze
// Body: {"transcript": "...", "video_asset_url": "...", "metadata": {...}}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	body, err := decodeRequest(req)
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	a, err := r.svc.Analyze(req.Context(), tenant, body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// POST /v1/{tenant}/analyze/async
func (r *Router) handleAnalyzeAsync(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	body, err := decodeRequest(req)
	if err != nil {
		return err
	}
	// tolak request kosong sebelum masuk antrian
	if err := body.Validate(); err != nil {
		return err
	}

	// 🚀 jalankan di background, biar jalan sampai selesai
	middleware.IncrementAnalyses()
	go func() {
		middleware.IncrementAnalysesRunning()
		defer middleware.DecrementAnalysesRunning()
		r.svc.AnalyzeUntilDone(tenant, body)
	}()

	// 🔙 langsung balikin respons ke client
	resp := map[string]any{
		"status":   "queued",
		"tenant":   tenant,
		"message":  "analysis started in background",
		"queuedAt": time.Now(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	size = middleware.ValidateLimit(size)

	list, err := r.svc.Paginate(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequestError{msg: err.Error()}
	}

	a, err := r.svc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{tenant}/analyses/{id}/diagnostics?limit=50
func (r *Router) handleDiagnostics(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequestError{msg: err.Error()}
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Diagnostics(req.Context(), tenant, domain.AnalysisID(id), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	total, low, medium, high, err := r.svc.Summary(req.Context(), tenant, days)
	if err != nil {
		return err
	}
	resp := map[string]any{
		"days":   days,
		"total":  total,
		"low":    low,
		"medium": medium,
		"high":   high,
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/usage/{provider}
func (r *Router) handleUsage(w http.ResponseWriter, req *http.Request) error {
	if _, err := tenantFrom(req); err != nil {
		return err
	}
	provider := chi.URLParam(req, "provider")
	if r.governor == nil {
		return fmt.Errorf("usage tracking is not configured")
	}

	status := r.governor.CheckQuota(req.Context(), provider)
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(status)
}
