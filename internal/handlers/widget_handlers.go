package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sevenguis/internal/models"
	"sevenguis/internal/services"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// WidgetHandler binds browser input events to widget controllers
type WidgetHandler struct {
	widgets *services.WidgetService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(
	widgets *services.WidgetService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *WidgetHandler {
	return &WidgetHandler{
		widgets: widgets,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// TemperatureEditRequest is the full text of one converter field
type TemperatureEditRequest struct {
	Unit string  `json:"unit"`
	Text *string `json:"text"`
}

// CounterResponse is the counter value after an activation
type CounterResponse struct {
	Count int `json:"count"`
}

// Page handles GET / by mounting a widget pair and rendering it
func (h *WidgetHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mount := h.widgets.Mount(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, newPageData(mount.Snapshot())); err != nil {
		h.logger.Error(logging.WithWidgetID(ctx, mount.ID), "[PAGE_RENDER_ERROR] Failed to render page", logging.Fields{}, err)
		h.metrics.RecordAPIError("render_error", "/")
	}
}

// CreateMount handles POST /api/widgets
func (h *WidgetHandler) CreateMount(w http.ResponseWriter, r *http.Request) {
	mount := h.widgets.Mount(r.Context())
	h.sendJSON(w, mount.Snapshot(), http.StatusCreated)
}

// GetMount handles GET /api/widgets/{id}
func (h *WidgetHandler) GetMount(w http.ResponseWriter, r *http.Request) {
	mount, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, mount.Snapshot(), http.StatusOK)
}

// DeleteMount handles DELETE /api/widgets/{id}
func (h *WidgetHandler) DeleteMount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.widgets.Unmount(r.Context(), id); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EditTemperature handles POST /api/widgets/{id}/temperature.
// Unparsable temperature text is not an error here; it comes back as an
// invalid display.
func (h *WidgetHandler) EditTemperature(w http.ResponseWriter, r *http.Request) {
	mount, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req TemperatureEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == nil {
		h.sendError(w, r, "text is required", http.StatusBadRequest)
		return
	}

	unit, err := models.ParseUnit(req.Unit)
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := logging.WithWidgetID(r.Context(), mount.ID)
	snap := mount.Temperature.Handle(ctx, models.Edit{Unit: unit, Text: *req.Text})
	h.sendJSON(w, snap, http.StatusOK)
}

// IncrementCounter handles POST /api/widgets/{id}/counter/increment
func (h *WidgetHandler) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	mount, ok := h.lookup(w, r)
	if !ok {
		return
	}

	count := mount.Counter.Increment(logging.WithWidgetID(r.Context(), mount.ID))
	h.sendJSON(w, CounterResponse{Count: count}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *WidgetHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"mounts":    h.widgets.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(r.Context(), "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

func (h *WidgetHandler) lookup(w http.ResponseWriter, r *http.Request) (*services.Mount, bool) {
	mount, err := h.widgets.Get(mux.Vars(r)["id"])
	if err != nil {
		h.sendServiceError(w, r, err)
		return nil, false
	}
	return mount, true
}

func (h *WidgetHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrMountNotFound) {
		h.sendError(w, r, err.Error(), http.StatusNotFound)
		return
	}

	h.logger.Error(r.Context(), "[API_ERROR] Widget operation failed", logging.Fields{
		"path": r.URL.Path,
	}, err)
	h.sendError(w, r, "internal error", http.StatusInternalServerError)
}

// sendJSON sends a JSON response
func (h *WidgetHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *WidgetHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIError(http.StatusText(statusCode), routeTemplate(r))

	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		RequestID: logging.RequestIDFrom(r.Context()),
	}

	h.sendJSON(w, response, statusCode)
}

// Instrument assigns a request id and records request count and duration
func (h *WidgetHandler) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = r.WithContext(logging.WithRequestID(r.Context(), requestID))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		endpoint := routeTemplate(r)
		h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
		h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(rec.status))
	})
}

// RegisterRoutes registers the page, widget API, health and docs routes
func (h *WidgetHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.Instrument)

	router.HandleFunc("/", h.Page).Methods("GET")
	router.HandleFunc("/api/widgets", h.CreateMount).Methods("POST")
	router.HandleFunc("/api/widgets/{id}", h.GetMount).Methods("GET")
	router.HandleFunc("/api/widgets/{id}", h.DeleteMount).Methods("DELETE")
	router.HandleFunc("/api/widgets/{id}/temperature", h.EditTemperature).Methods("POST")
	router.HandleFunc("/api/widgets/{id}/counter/increment", h.IncrementCounter).Methods("POST")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", h.SwaggerUI).Methods("GET")
}

// routeTemplate keeps metric labels bounded by using the matched pattern
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
