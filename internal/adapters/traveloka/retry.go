package traveloka

import "time"

// outcomeClass buckets one attempt's result for the retry loop.
type outcomeClass int

const (
	classSuccess outcomeClass = iota
	classThrottled              // 429: upstream asked us to slow down
	classProxyAuth              // 407: proxy credentials rejected; retry same proxy
	classPermanent              // 400/403/404/405: auth or contract problem
	classTransient              // any other non-2xx, or a network-level failure
)

func classify(status int) outcomeClass {
	switch status {
	case 200, 202:
		return classSuccess
	case 429:
		return classThrottled
	case 407:
		return classProxyAuth
	case 400, 403, 404, 405:
		return classPermanent
	default:
		return classTransient
	}
}

// retryPolicy is the whole retry contract in one place: how many attempts
// and how long to wait between them. Attempts are 1-based.
type retryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// ShouldRetry reports whether another attempt is allowed after the given
// outcome. Permanent failures abandon the budget immediately.
func (p retryPolicy) ShouldRetry(class outcomeClass, attempt int) bool {
	switch class {
	case classSuccess, classPermanent:
		return false
	}
	return attempt < p.MaxAttempts
}

// Backoff returns the wait before the attempt after this one. Throttling
// grows the window linearly with the attempt number; everything else waits
// the fixed base.
func (p retryPolicy) Backoff(class outcomeClass, attempt int) time.Duration {
	if class == classThrottled {
		return p.BaseDelay * time.Duration(attempt)
	}
	return p.BaseDelay
}
