package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// CatalogService lists the module catalog
type CatalogService interface {
	Run(ctx context.Context) ([]domain.CatalogEntry, error)
}

// PredictService predicts clone addresses
type PredictService interface {
	Run(ctx context.Context, params usecase.PredictAddressParams) (*usecase.PredictAddressResult, error)
}

// InstanceService reads one instance record
type InstanceService interface {
	Run(ctx context.Context, params usecase.InstanceParams) (*usecase.InstanceView, error)
}

// CanonicalService reads the canonical instance of a module
type CanonicalService interface {
	Run(ctx context.Context, params usecase.GetCanonicalParams) (*usecase.InstanceView, error)
}

// ListService lists recorded instances
type ListService interface {
	Run(ctx context.Context, params usecase.ListInstancesParams) (*usecase.ListInstancesResult, error)
}

// RequestObserver records served requests
type RequestObserver interface {
	ObserveRequest(route string, status int, duration time.Duration)
}

// Services groups the read-only use cases exposed over HTTP
type Services struct {
	Catalog   CatalogService
	Predict   PredictService
	Instance  InstanceService
	Canonical CanonicalService
	List      ListService
}

// Handler serves the read-only registry API
type Handler struct {
	services Services
	gatherer prometheus.Gatherer
	observer RequestObserver
	logger   *slog.Logger
}

// New constructs the API handler. gatherer and observer may be nil.
func New(services Services, gatherer prometheus.Gatherer, observer RequestObserver, logger *slog.Logger) *Handler {
	return &Handler{
		services: services,
		gatherer: gatherer,
		observer: observer,
		logger:   logger.With("component", "httpapi"),
	}
}

// Router builds the chi router with every route mounted
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	h.Register(r)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Register mounts the API endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/modules", h.handleCatalog)
		r.Get("/instances", h.handleAllInstances)
		r.Route("/domains/{domain}/modules/{module}", func(r chi.Router) {
			r.Get("/canonical", h.handleCanonical)
			r.Get("/instances", h.handleInstances)
			r.Get("/instances/{instance}", h.handleInstance)
			r.Get("/instances/{instance}/predict", h.handlePredict)
		})
	})
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if h.observer != nil {
			h.observer.ObserveRequest(route, status, time.Since(start))
		}
		h.logger.DebugContext(r.Context(), "request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.Catalog.Run(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": entries})
}

func (h *Handler) handleAllInstances(w http.ResponseWriter, r *http.Request) {
	res, err := h.services.List.Run(r.Context(), usecase.ListInstancesParams{
		Module:     r.URL.Query().Get("module"),
		AllDomains: true,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FromListResult(res))
}

func (h *Handler) handleInstances(w http.ResponseWriter, r *http.Request) {
	res, err := h.services.List.Run(r.Context(), usecase.ListInstancesParams{
		Domain: chi.URLParam(r, "domain"),
		Module: chi.URLParam(r, "module"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FromListResult(res))
}

func (h *Handler) handleInstance(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.instanceParam(w, r)
	if !ok {
		return
	}
	view, err := h.services.Instance.Run(r.Context(), usecase.InstanceParams{
		Domain:   chi.URLParam(r, "domain"),
		Module:   chi.URLParam(r, "module"),
		Instance: instance,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !view.Deployed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "instance not recorded", Code: "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.instanceParam(w, r)
	if !ok {
		return
	}
	res, err := h.services.Predict.Run(r.Context(), usecase.PredictAddressParams{
		Domain:   chi.URLParam(r, "domain"),
		Module:   chi.URLParam(r, "module"),
		Instance: instance,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleCanonical(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Canonical.Run(r.Context(), usecase.GetCanonicalParams{
		Domain: chi.URLParam(r, "domain"),
		Module: chi.URLParam(r, "module"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) instanceParam(w http.ResponseWriter, r *http.Request) (domain.InstanceID, bool) {
	raw := chi.URLParam(r, "instance")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid instance id: " + raw, Code: "bad_request"})
		return 0, false
	}
	return domain.InstanceID(n), true
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrModuleNotSet):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrNotBootstrapped):
		status, code = http.StatusServiceUnavailable, "not_bootstrapped"
	case errors.Is(err, domain.ErrInvalidModuleID), errors.Is(err, domain.ErrInvalidInstanceID):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrAmbiguousModule):
		status, code = http.StatusBadRequest, "ambiguous_module"
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
