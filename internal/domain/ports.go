package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidDate marks unparseable or impossible stay dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNoAuth means no WAF token was configured; the upstream will
	// refuse everything, so fail before the first request.
	ErrNoAuth = errors.New("no authentication token configured")

	// ErrPermanent covers 400/403/404/405 replies: an auth or endpoint
	// contract problem, not load. Retrying is pointless.
	ErrPermanent = errors.New("permanent upstream error")

	// ErrNoData means the retry budget ran out without a usable response.
	ErrNoData = errors.New("no data after retries")
)

// RateSource fetches and normalizes room rates for one search.
type RateSource interface {
	RoomRates(ctx context.Context, req SearchRequest) ([]RateRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
