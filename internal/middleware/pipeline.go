// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/monitor"
	"github.com/tomtom215/gigmarket/internal/perf"
	"github.com/tomtom215/gigmarket/internal/ratelimit"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/session"
)

// DefaultCORSOptions returns the CORS policy for the given origins. Blank
// entries are dropped and an empty list disallows cross-origin requests.
func DefaultCORSOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	opts := cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type", "Authorization",
			security.HeaderCSRFToken, security.HeaderSessionToken, security.HeaderAPIKey,
			HeaderRequestID,
		},
		ExposedHeaders: []string{
			HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
			"Retry-After", HeaderResponseTime,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	if len(allowed) == 0 {
		// go-chi/cors treats an empty AllowedOrigins as "*".
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return opts
}

// Options configures a Pipeline.
type Options struct {
	Routes    *RouteTable
	Limiter   *ratelimit.Limiter
	Inspector *security.Inspector
	Alerts    apierror.AlertRecorder // nil disables alerts
	Sessions  session.Resolver       // nil means every request is anonymous
	Errors    *apierror.Handler
	Tracker   *perf.Tracker
	Headers   security.HeaderConfig
	CORS      cors.Options
}

// Pipeline runs the per-request security stages in front of a handler:
//
//	request id -> headers/timing -> CORS (preflight short-circuit)
//	    -> rate limit -> inspection -> session/role gate -> handler
//
// Stages run in order and the first rejection ends the request. Security,
// CORS, timing and request id headers are written on every exit.
type Pipeline struct {
	routes    *RouteTable
	limiter   *ratelimit.Limiter
	inspector *security.Inspector
	alerts    apierror.AlertRecorder
	sessions  session.Resolver
	errors    *apierror.Handler
	tracker   *perf.Tracker
	headers   security.HeaderConfig
	cors      func(http.Handler) http.Handler

	log    zerolog.Logger
	secLog *logging.SecurityLogger
}

// NewPipeline assembles a pipeline. Routes, Limiter and Inspector are required.
func NewPipeline(opts Options) *Pipeline {
	errs := opts.Errors
	if errs == nil {
		errs = apierror.NewHandler(false, opts.Alerts, nil)
	}
	return &Pipeline{
		routes:    opts.Routes,
		limiter:   opts.Limiter,
		inspector: opts.Inspector,
		alerts:    opts.Alerts,
		sessions:  opts.Sessions,
		errors:    errs,
		tracker:   opts.Tracker,
		headers:   opts.Headers,
		cors:      cors.Handler(opts.CORS),
		log:       logging.WithComponent("pipeline"),
		secLog:    logging.NewSecurityLogger(),
	}
}

// Routes returns the route table the pipeline classifies with.
func (p *Pipeline) Routes() *RouteTable {
	return p.routes
}

// Handler wraps next with the full pipeline.
func (p *Pipeline) Handler(next http.Handler) http.Handler {
	stages := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.serve(w, r, next)
	})
	return RequestID(
		p.securityHeaders(
			Timing(p.tracker, p.routes)(
				Prometheus(p.routes)(
					p.cors(stages)))))
}

func (p *Pipeline) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		security.SecurityHeaders(w.Header(), p.headers)
		next.ServeHTTP(w, r)
	})
}

func (p *Pipeline) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	r = p.withSession(r)

	class, ok := p.routes.Match(r.URL.Path)
	if !ok {
		next.ServeHTTP(w, r)
		return
	}

	if class.RateLimit != nil && !p.rateLimit(w, r, *class.RateLimit) {
		return
	}
	if !p.inspect(w, r, class.Security) {
		return
	}
	if class.Security.LogRequests {
		p.secLog.LogRequest(security.ClientIP(r), r.UserAgent(), r.Method, r.URL.Path)
	}
	if class.Security.RequireAuth || len(class.Security.Roles) > 0 {
		if !p.gate(w, r, class.Security.Roles) {
			return
		}
	}

	next.ServeHTTP(w, r)
}

func (p *Pipeline) rateLimit(w http.ResponseWriter, r *http.Request, cfg ratelimit.Config) bool {
	res, _ := p.limiter.Allow(r.Context(), r, cfg)
	ratelimit.Headers(w, res.Info)
	if res.Allowed {
		return true
	}

	p.limiter.Deny(w, r, cfg, res.Info)
	p.alert(r, monitor.AlertRateLimitExceeded, monitor.SeverityMedium, map[string]any{
		"limiter": cfg.Name,
		"limit":   cfg.Max,
	})
	return false
}

func (p *Pipeline) inspect(w http.ResponseWriter, r *http.Request, profile SecurityProfile) bool {
	if profile.CheckSuspicious {
		if rej := p.inspector.Inspect(r); rej != nil {
			rej.Write(w)
			typ, sev := alertForCategory(rej.Category)
			p.alert(r, typ, sev, map[string]any{"reason": rej.Reason, "pattern": rej.Pattern})
			return false
		}
	}
	if profile.ValidateCSRF {
		if rej := p.inspector.InspectCSRF(r); rej != nil {
			rej.Write(w)
			p.alert(r, monitor.AlertCSRFViolation, monitor.SeverityMedium, nil)
			return false
		}
	}
	return true
}

func alertForCategory(c security.Category) (monitor.AlertType, monitor.Severity) {
	switch c {
	case security.CategorySQLInjection:
		return monitor.AlertSQLInjection, monitor.SeverityHigh
	case security.CategoryXSS:
		return monitor.AlertXSS, monitor.SeverityHigh
	case security.CategoryPathTraversal:
		return monitor.AlertSuspiciousActivity, monitor.SeverityHigh
	default:
		return monitor.AlertSuspiciousActivity, monitor.SeverityMedium
	}
}

// withSession attaches the resolved session, if any, to the request context.
func (p *Pipeline) withSession(r *http.Request) *http.Request {
	if p.sessions == nil {
		return r
	}
	if _, ok := session.FromContext(r.Context()); ok {
		return r
	}

	s, err := p.sessions.Resolve(r)
	if err != nil {
		if !errors.Is(err, session.ErrNoCredentials) {
			p.log.Debug().Err(err).Str("path", r.URL.Path).Msg("session rejected")
		}
		return r
	}
	ctx := session.WithSession(r.Context(), s)
	ctx = logging.ContextWithUserID(ctx, s.User.ID)
	return r.WithContext(ctx)
}

func (p *Pipeline) alert(r *http.Request, typ monitor.AlertType, sev monitor.Severity, details map[string]any) {
	if p.alerts == nil {
		return
	}
	if _, err := p.alerts.RecordAlert(r.Context(), r, typ, sev, details); err != nil {
		p.log.Warn().Err(err).Str("alert_type", string(typ)).Msg("failed to record security alert")
	}
}
