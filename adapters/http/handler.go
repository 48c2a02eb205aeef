// Package http provides the HTTP channel adapter: the chi router, the
// catch-all proxy handler, the health endpoint, and JSON error rendering.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/artpar/gateway/adapters/metrics"
	"github.com/artpar/gateway/app"
	"github.com/artpar/gateway/domain/gatewayerr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthPath bypasses the Matcher and Method Gate entirely, per spec.md §4.6.
const HealthPath = "/health"

// errorBody is the wire shape of a gateway error response: {"error": ...}
// with an optional "debug" field, per spec.md §7.
type errorBody struct {
	Error string `json:"error"`
	Debug string `json:"debug,omitempty"`
}

// ProxyHandler adapts the Dispatcher to net/http.
type ProxyHandler struct {
	dispatcher *app.Dispatcher
	logger     zerolog.Logger
	metrics    *metrics.Collector
}

// NewProxyHandler creates a ProxyHandler. metrics may be nil, in which case
// no metrics are recorded.
func NewProxyHandler(dispatcher *app.Dispatcher, logger zerolog.Logger, m *metrics.Collector) *ProxyHandler {
	return &ProxyHandler{dispatcher: dispatcher, logger: logger, metrics: m}
}

// ServeHTTP handles every request that reaches the catch-all route: it
// builds a DispatchRequest from r, invokes the Dispatcher, and renders the
// result.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.metrics != nil {
		h.metrics.RequestsInFlight.Inc()
		defer h.metrics.RequestsInFlight.Dec()
	}

	result := h.dispatcher.Dispatch(r.Context(), app.DispatchRequest{
		Method:       r.Method,
		Path:         r.URL.Path,
		PathAndQuery: pathAndQuery(r),
		Headers:      r.Header,
		Body:         r.Body,
	})

	duration := time.Since(start)
	h.logResult(r, result, duration)
	h.recordMetrics(result, duration)

	if result.Err != nil {
		writeError(w, result.Err)
		return
	}

	for k, values := range result.Response.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(result.Response.Status)
	if len(result.Response.Body) > 0 {
		if _, err := w.Write(result.Response.Body); err != nil {
			h.logger.Error().Err(err).Msg("failed to write downstream response")
		}
	}
}

// pathAndQuery returns the inbound request-target verbatim, preserving
// percent-encoding (e.g. a client-sent %2F must reach the upstream as %2F,
// not as a decoded "/"). r.URL.Path is already-decoded and must not be used
// here; route matching is the only consumer of the decoded form.
func pathAndQuery(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.EscapedPath()
	}
	return r.URL.EscapedPath() + "?" + r.URL.RawQuery
}

func (h *ProxyHandler) logResult(r *http.Request, result app.DispatchResult, duration time.Duration) {
	ev := h.logger.Debug()
	status := 200
	if result.Err != nil {
		status = result.Err.Status()
		if status >= 500 {
			ev = h.logger.Error()
		} else {
			ev = h.logger.Warn()
		}
	} else if result.Response != nil {
		status = result.Response.Status
	}

	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("route_index", result.RouteIndex).
		Str("route_id", result.RouteID).
		Int("status", status).
		Dur("duration", duration).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("request dispatched")
}

func (h *ProxyHandler) recordMetrics(result app.DispatchResult, duration time.Duration) {
	if h.metrics == nil {
		return
	}
	status := "200"
	if result.Err != nil {
		status = string(result.Err.Kind)
		if result.Err.Kind == gatewayerr.KindProxyError {
			h.metrics.UpstreamErrors.WithLabelValues(routeIndexLabel(result.RouteIndex)).Inc()
		}
	} else if result.Response != nil {
		status = strconv.Itoa(result.Response.Status)
	}
	h.metrics.RequestsTotal.WithLabelValues(status).Inc()
	h.metrics.RequestDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func routeIndexLabel(idx int) string {
	if idx < 0 {
		return "none"
	}
	return strconv.Itoa(idx)
}

func writeError(w http.ResponseWriter, err *gatewayerr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: err.Message(),
		Debug: err.Debug,
	})
}

// Health handles GET /health: 200 OK, body "OK", never proxied.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// RouterConfig bounds how many requests the router will dispatch
// concurrently, honoring spec.md §5's advisory max_connections as a soft
// cap on in-flight handling rather than a hard transport-level limit — new
// requests beyond the cap wait for a slot instead of silently
// head-of-line-blocking already-accepted ones.
type RouterConfig struct {
	MaxInFlight int
}

// NewRouter builds the chi router: request-ID and recoverer middleware,
// /health (bypassing the Matcher entirely), /metrics when m is non-nil, and
// the catch-all proxy route.
func NewRouter(proxyHandler *ProxyHandler, m *metrics.Collector, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.MaxInFlight > 0 {
		r.Use(inFlightLimiter(cfg.MaxInFlight))
	}

	r.Get(HealthPath, Health)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
	r.HandleFunc("/*", proxyHandler.ServeHTTP)

	return r
}

// inFlightLimiter bounds the number of requests being handled concurrently
// using a buffered channel as a semaphore; a request that cannot acquire a
// slot blocks at the handler, not at Accept, so other accepted connections
// are never silently starved.
func inFlightLimiter(max int) func(http.Handler) http.Handler {
	sem := make(chan struct{}, max)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		})
	}
}
