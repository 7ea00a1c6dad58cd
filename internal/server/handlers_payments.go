// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/gigmarket/internal/apierror"
	"github.com/tomtom215/gigmarket/internal/httputil"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/monitor"
	"github.com/tomtom215/gigmarket/internal/ratelimit"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/session"
	"github.com/tomtom215/gigmarket/internal/validation"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

var paymentIntentRules = []validation.Rule{
	{Field: "amount", Required: true, Type: validation.TypeNumber, Min: validation.Bound(1), Max: validation.Bound(1_000_000)},
	{Field: "currency", Required: true, Type: validation.TypeString, Pattern: currencyPattern},
	{Field: "jobId", Required: true, Type: validation.TypeString, Custom: func(v any) error {
		s, _ := v.(string)
		if _, err := uuid.Parse(s); err != nil {
			return errors.New("jobId must be a valid identifier")
		}
		return nil
	}},
	{Field: "description", Type: validation.TypeString, MaxLength: 2000},
	{Field: "receiptEmail", Type: validation.TypeString, Custom: func(v any) error {
		if s, _ := v.(string); !security.IsValidEmail(s) {
			return errors.New("receiptEmail must be a valid email address")
		}
		return nil
	}},
	{Field: "returnUrl", Type: validation.TypeString, Custom: func(v any) error {
		if s, _ := v.(string); security.SanitizeURL(s) == "" {
			return errors.New("returnUrl must be an absolute http or https URL")
		}
		return nil
	}},
}

// Per-account intent budget, on top of the per-IP payments limit.
var paymentAccountLimit = ratelimit.UserScoped(ratelimit.Config{
	Name:    "payment-account",
	Window:  time.Hour,
	Max:     10,
	Message: "Too many payment attempts for this account",
}, session.UserID)

const maxIntentDescription = 500

// PaymentIntent is the response of CreatePaymentIntent.
type PaymentIntent struct {
	IntentID string  `json:"intentId"`
	JobID    string  `json:"jobId"`
	UserID   string  `json:"userId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`

	Description  string `json:"description,omitempty"`
	ReceiptEmail string `json:"receiptEmail,omitempty"`
	ReturnURL    string `json:"returnUrl,omitempty"`
}

// CreatePaymentIntent registers a pending payment for a job. The payments
// route class has already authenticated the caller and charged the per-IP
// budget; the per-account budget is charged here.
func (a *App) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) error {
	res, err := a.Limiter.Allow(r.Context(), r, paymentAccountLimit)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Account rate limit check failed")
	}
	if !res.Allowed {
		a.Limiter.Deny(w, r, paymentAccountLimit, res.Info)
		a.recordAlert(r, monitor.AlertRateLimitExceeded, monitor.SeverityMedium, map[string]any{
			"limiter": paymentAccountLimit.Name,
			"limit":   paymentAccountLimit.Max,
		})
		return nil
	}

	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if verr := validation.Check(body, paymentIntentRules); verr != nil {
		return verr
	}

	intent := PaymentIntent{
		IntentID: uuid.NewString(),
		JobID:    body["jobId"].(string),
		UserID:   session.UserID(r),
		Amount:   body["amount"].(float64),
		Currency: strings.ToUpper(body["currency"].(string)),
		Status:   "requires_confirmation",
	}
	if v, ok := body["description"].(string); ok {
		intent.Description = security.SanitizeString(v, maxIntentDescription)
	}
	if v, ok := body["receiptEmail"].(string); ok {
		intent.ReceiptEmail = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := body["returnUrl"].(string); ok {
		intent.ReturnURL = security.SanitizeURL(v)
	}
	logging.Ctx(r.Context()).Info().
		Str("intent_id", intent.IntentID).
		Str("job_id", intent.JobID).
		Float64("amount", intent.Amount).
		Str("currency", intent.Currency).
		Msg("Payment intent created")

	httputil.WriteJSON(w, http.StatusCreated, intent)
	return nil
}

// Webhook key failures per IP before the source is locked out.
const (
	webhookMaxFailures   = 10
	webhookFailureWindow = 15 * time.Minute
	webhookIdentifier    = "webhook"
)

// PaymentWebhook accepts provider callbacks authenticated by X-API-Key.
// Repeated bad keys from one address lock it out for webhookFailureWindow.
func (a *App) PaymentWebhook(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ip := security.ClientIP(r)

	status, err := a.Monitor.CheckBruteForce(ctx, ip, webhookIdentifier, webhookMaxFailures, webhookFailureWindow)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Brute force check failed")
	}
	if status.IsBlocked {
		a.recordAlert(r, monitor.AlertBruteForce, monitor.SeverityHigh, map[string]any{"attempts": status.Attempts})
		if status.ResetTime != nil {
			secs := int(math.Ceil(time.Until(*status.ResetTime).Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
		}
		e := apierror.RateLimit("Too many failed attempts")
		a.Errors.Log(ctx, e)
		a.Errors.Respond(w, r, e)
		return nil
	}

	if !security.ValidateAPIKey(r, a.Config.Security.ValidAPIKeys) {
		logging.NewSecurityLogger().LogInvalidAPIKey(ip, r.URL.Path, r.Header.Get(security.HeaderAPIKey))
		if _, err := a.Monitor.RecordFailedAttempt(ctx, ip, webhookIdentifier, webhookFailureWindow); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to record webhook attempt")
		}
		a.recordAlert(r, monitor.AlertInvalidToken, monitor.SeverityHigh, map[string]any{"reason": "invalid_api_key"})

		// Answered directly so the failure is recorded once, as invalid_token.
		e := apierror.Authentication("Invalid API key")
		a.Errors.Log(ctx, e)
		a.Errors.Respond(w, r, e)
		return nil
	}
	if status.Attempts > 0 {
		if err := a.Monitor.ClearFailedAttempts(ctx, ip, webhookIdentifier); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to clear webhook attempts")
		}
	}

	var event map[string]any
	if err := decodeJSON(r, &event); err != nil {
		return err
	}
	if verr := validation.Check(event, []validation.Rule{
		{Field: "type", Required: true, Type: validation.TypeString, MinLength: 1, MaxLength: 100},
		{Field: "data", Type: validation.TypeObject},
	}); verr != nil {
		return verr
	}

	logging.Ctx(r.Context()).Info().
		Str("event_type", logging.SanitizeLogValue(event["type"].(string))).
		Msg("Payment webhook accepted")

	httputil.WriteJSON(w, http.StatusAccepted, map[string]bool{"received": true})
	return nil
}

func (a *App) recordAlert(r *http.Request, typ monitor.AlertType, sev monitor.Severity, details map[string]any) {
	if _, err := a.Monitor.RecordAlert(r.Context(), r, typ, sev, details); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("alert_type", string(typ)).Msg("Failed to record security alert")
	}
}
