// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package apierror

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/httputil"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/metrics"
	"github.com/tomtom215/gigmarket/internal/monitor"
)

// HeaderRequestID carries the request correlation id on every response.
const HeaderRequestID = "X-Request-ID"

// AlertRecorder persists security alerts. *monitor.Monitor satisfies it.
type AlertRecorder interface {
	RecordAlert(ctx context.Context, r *http.Request, typ monitor.AlertType, sev monitor.Severity, details map[string]any) (*monitor.Alert, error)
}

// Handler turns failures into logged, alerted and serialized responses.
type Handler struct {
	// Production strips details from critical responses.
	Production bool
	// Alerts receives authentication, authorization and rate limit failures.
	// Nil disables alerting.
	Alerts AlertRecorder
	// Pager is notified of critical errors. Nil disables paging.
	Pager Pager

	log zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(production bool, alerts AlertRecorder, pager Pager) *Handler {
	return &Handler{
		Production: production,
		Alerts:     alerts,
		Pager:      pager,
		log:        logging.WithComponent("apierror"),
	}
}

// Body is the JSON error envelope.
type Body struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// Handle classifies v and writes the response for it.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, v any) {
	e := Transform(v)
	h.enrich(r, e)
	if e.Type == TypeInternal && !hasStack(e.Details) {
		e.Details = mergeDetails(e.Details, map[string]any{"stack": string(debug.Stack())})
	}

	metrics.RecordAPIError(string(e.Type), string(e.Severity))
	h.Log(r.Context(), e)
	h.alert(r, e)
	h.page(r.Context(), e)
	h.Respond(w, r, e)
}

// Log writes e at a level matching its severity. The cause is included;
// it is never sent to the client.
func (h *Handler) Log(ctx context.Context, e *APIError) {
	l := h.log
	var ev *zerolog.Event
	switch e.Severity {
	case SeverityCritical:
		ev = l.Error().Bool("critical", true)
	case SeverityHigh:
		ev = l.Error()
	case SeverityMedium:
		ev = l.Warn()
	default:
		ev = l.Info()
	}

	ev = ev.Str("type", string(e.Type)).
		Str("severity", string(e.Severity)).
		Int("status", e.Status)
	if e.Code != "" {
		ev = ev.Str("code", e.Code)
	}
	if id := e.RequestID; id != "" {
		ev = ev.Str("request_id", id)
	} else if id := logging.RequestIDFromContext(ctx); id != "" {
		ev = ev.Str("request_id", id)
	}
	if e.UserID != "" {
		ev = ev.Str("user_id", logging.SanitizeUserID(e.UserID))
	}
	if e.cause != nil {
		ev = ev.Str("cause", logging.SanitizeError(e.cause.Error()))
	}
	if e.Severity == SeverityCritical && e.Details != nil {
		ev = ev.Interface("details", e.Details)
	}
	ev.Msg(e.Message)
}

// Respond writes the envelope. Critical details are withheld in production.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request, e *APIError) {
	if e.RequestID == "" {
		h.enrich(r, e)
	}
	w.Header().Set(HeaderRequestID, e.RequestID)

	body := Body{
		Error:     e.Message,
		Code:      e.Code,
		Details:   e.Details,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		RequestID: e.RequestID,
	}
	if h.Production && e.Severity == SeverityCritical {
		body.Details = nil
	}
	httputil.WriteJSON(w, e.Status, body)
}

// Wrap adapts an error-returning handler. A returned error or a panic is
// routed through Handle; the request id header is always set.
func (h *Handler) Wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r)
		if logging.RequestIDFromContext(r.Context()) == "" {
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))
		}
		w.Header().Set(HeaderRequestID, id)

		sw := &statusWriter{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			e := Transform(rec)
			if e.Type == TypeInternal {
				e.Details = mergeDetails(e.Details, map[string]any{
					"panic": fmt.Sprintf("%v", rec),
					"stack": string(debug.Stack()),
				})
			}
			h.finish(sw, r, e)
		}()

		if err := fn(sw, r); err != nil {
			h.finish(sw, r, err)
		}
	}
}

func (h *Handler) finish(sw *statusWriter, r *http.Request, v any) {
	if sw.wrote {
		e := Transform(v)
		h.enrich(r, e)
		h.log.Warn().Str("type", string(e.Type)).Int("sent_status", sw.status).
			Msg("error after response started")
		return
	}
	h.Handle(sw, r, v)
}

func (h *Handler) enrich(r *http.Request, e *APIError) {
	if e.RequestID == "" {
		e.RequestID = requestID(r)
	}
	if e.UserID == "" {
		e.UserID = logging.UserIDFromContext(r.Context())
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

var alertTypes = map[Type]monitor.AlertType{
	TypeAuthentication: monitor.AlertAuthFailure,
	TypeAuthorization:  monitor.AlertUnauthorizedAccess,
	TypeRateLimit:      monitor.AlertRateLimitExceeded,
}

func (h *Handler) alert(r *http.Request, e *APIError) {
	if h.Alerts == nil {
		return
	}
	typ, ok := alertTypes[e.Type]
	if !ok {
		return
	}
	details := map[string]any{"message": e.Message, "requestId": e.RequestID}
	if _, err := h.Alerts.RecordAlert(r.Context(), r, typ, monitor.Severity(e.Severity), details); err != nil {
		h.log.Warn().Err(err).Str("alert_type", string(typ)).Msg("failed to record security alert")
	}
}

func (h *Handler) page(ctx context.Context, e *APIError) {
	if h.Pager == nil || e.Severity != SeverityCritical {
		return
	}
	if err := h.Pager.Page(ctx, e); err != nil {
		h.log.Debug().Err(err).Msg("page not sent")
	}
}

func requestID(r *http.Request) string {
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(HeaderRequestID); id != "" {
		return logging.SanitizeLogValue(id)
	}
	return logging.GenerateRequestID()
}

func hasStack(details any) bool {
	m, ok := details.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["stack"]
	return ok
}

func mergeDetails(existing any, extra map[string]any) any {
	m, ok := existing.(map[string]any)
	if !ok {
		if existing != nil {
			extra["value"] = existing
		}
		return extra
	}
	for k, v := range extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return m
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.status = http.StatusOK
		w.wrote = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
