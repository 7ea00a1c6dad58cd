// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package apierror

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/gigmarket/internal/logging"
)

// ErrPageThrottled is returned when a page is suppressed by the rate limit.
var ErrPageThrottled = errors.New("apierror: page throttled")

// Pager notifies an operator about a critical error.
type Pager interface {
	Page(ctx context.Context, e *APIError) error
}

// LogPager pages by writing an error-level log line tagged for alert
// routing in the log pipeline.
type LogPager struct{}

// Page implements Pager.
func (LogPager) Page(ctx context.Context, e *APIError) error {
	logging.Ctx(ctx).Error().
		Bool("page", true).
		Str("type", string(e.Type)).
		Str("request_id", e.RequestID).
		Msg(e.Message)
	return nil
}

// ThrottledPager forwards at most perMinute pages per minute to next.
type ThrottledPager struct {
	next    Pager
	limiter *rate.Limiter
}

// NewThrottledPager wraps next. perMinute <= 0 selects one page per minute.
func NewThrottledPager(next Pager, perMinute int) *ThrottledPager {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &ThrottledPager{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Page implements Pager.
func (p *ThrottledPager) Page(ctx context.Context, e *APIError) error {
	if !p.limiter.Allow() {
		return ErrPageThrottled
	}
	return p.next.Page(ctx, e)
}
