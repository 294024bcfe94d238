// internal/adapters/traveloka/client.go
package traveloka

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"traveloka_rates/internal/adapters/observability"
	"traveloka_rates/internal/domain"
)

const (
	defaultBaseURL   = "https://www.traveloka.com"
	roomsPath        = "/api/v2/hotel/search/rooms"
	wafTokenCookie   = "aws-waf-token"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// browserHeaders makes the request look like the browser session that
// solved the CAPTCHA. The User-Agent is overridable via Options.
func browserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Content-Type":    "application/json",
		"Origin":          defaultBaseURL,
		"Referer":         defaultBaseURL + "/",
		"Sec-Fetch-Dest":  "empty",
		"Sec-Fetch-Mode":  "cors",
		"Sec-Fetch-Site":  "same-origin",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	}
}

type Options struct {
	BaseURL      string        // defaults to the public site
	ProxyURL     string        // http/https/socks5, credentials allowed
	UserAgent    string        // must match the browser session when set there
	Timeout      time.Duration // per-request; default 30s
	RequestDelay time.Duration // floor between requests; default 3s
	MaxRetries   int           // attempt budget; default 3
	RetryDelay   time.Duration // backoff base; default 5s
}

func (o *Options) fill() {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.RequestDelay <= 0 {
		o.RequestDelay = 3 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 5 * time.Second
	}
}

// Client talks to the rooms API: builds payloads, paces and retries the
// POST, and normalizes responses. One in-flight request at a time.
type Client struct {
	hc     *resty.Client
	opts   Options
	policy retryPolicy
	log    zerolog.Logger

	mu       sync.Mutex
	lastDone time.Time
	proxyURL string
}

// New fails fast when no WAF token is supplied; without it the upstream
// rejects every call with 405s that would otherwise look like a bug here.
func New(auth domain.AuthContext, opts Options, log zerolog.Logger) (*Client, error) {
	if auth.WAFToken == "" {
		return nil, domain.ErrNoAuth
	}
	opts.fill()

	hc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeaders(browserHeaders(opts.UserAgent))

	c := &Client{
		hc:   hc,
		opts: opts,
		policy: retryPolicy{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   opts.RetryDelay,
		},
		log: log,
	}
	c.setCookies(auth)

	if opts.ProxyURL != "" {
		c.proxyURL = opts.ProxyURL
		hc.SetProxy(opts.ProxyURL)
		log.Info().Str("proxy", maskProxyURL(opts.ProxyURL)).Msg("traveloka client initialized with proxy")
	} else {
		log.Info().Msg("traveloka client initialized (no proxy)")
	}
	return c, nil
}

func (c *Client) setCookies(auth domain.AuthContext) {
	cookies := []*http.Cookie{{Name: wafTokenCookie, Value: auth.WAFToken}}
	for name, value := range auth.Cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	c.hc.Cookies = cookies
}

// SetAuth replaces the WAF token and session cookies between calls, for
// when the caller obtains a fresh browser session.
func (c *Client) SetAuth(auth domain.AuthContext) error {
	if auth.WAFToken == "" {
		return domain.ErrNoAuth
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCookies(auth)
	c.log.Info().Int("cookies", len(auth.Cookies)).Msg("auth context replaced")
	return nil
}

// SetProxy switches the outbound proxy at runtime.
func (c *Client) SetProxy(proxyURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proxyURL = proxyURL
	c.hc.SetProxy(proxyURL)
	c.log.Info().Str("proxy", maskProxyURL(proxyURL)).Msg("proxy changed")
}

// DisableProxy reverts to a direct connection.
func (c *Client) DisableProxy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proxyURL = ""
	c.hc.RemoveProxy()
	c.log.Info().Msg("proxy disabled, using direct connection")
}

// maskProxyURL hides embedded credentials so proxy URLs are loggable.
func maskProxyURL(proxyURL string) string {
	if i := strings.LastIndex(proxyURL, "@"); i >= 0 {
		scheme, _, found := strings.Cut(proxyURL[:i], "://")
		if found {
			return scheme + "://***:***@" + proxyURL[i+1:]
		}
		return "***:***@" + proxyURL[i+1:]
	}
	return proxyURL
}

// RoomRates implements domain.RateSource.
func (c *Client) RoomRates(ctx context.Context, req domain.SearchRequest) ([]domain.RateRecord, error) {
	payload, err := buildPayload(req, nil, c.opts.UserAgent, time.Now())
	if err != nil {
		return nil, err
	}
	doc, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	rates := extractRates(doc, req.Currency, c.log)
	return rates, nil
}

// post runs the paced, bounded retry loop around one rooms call and
// returns the decoded body. A 202 with an empty or unparsable body decodes
// to an empty document rather than an error.
func (c *Client) post(ctx context.Context, payload roomsPayload) (map[string]any, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		c.log.Info().
			Int("attempt", attempt).
			Int("max", c.policy.MaxAttempts).
			Str("proxy", maskProxyURL(c.proxyURL)).
			Str("tid", payload.TID).
			Msg("posting rooms request")

		start := time.Now()
		resp, err := c.hc.R().SetContext(ctx).SetBody(payload).Post(roomsPath)
		c.markDone()

		if err != nil {
			// network, proxy or timeout failure
			observability.ObserveExternal("traveloka", "rooms", 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("request failed at transport level")
			if c.policy.ShouldRetry(classTransient, attempt) {
				if !sleepCtx(ctx, c.policy.Backoff(classTransient, attempt)) {
					return nil, ctx.Err()
				}
				continue
			}
			break
		}

		status := resp.StatusCode()
		observability.ObserveExternal("traveloka", "rooms", status, time.Since(start))
		class := classify(status)

		switch class {
		case classSuccess:
			var doc map[string]any
			if err := json.Unmarshal(resp.Body(), &doc); err != nil || doc == nil {
				// 202 with an empty body is a valid "nothing yet" reply
				c.log.Info().Int("status", status).Msg("success status with empty or unparsable body")
				return map[string]any{}, nil
			}
			return doc, nil

		case classPermanent:
			c.log.Error().
				Int("status", status).
				Str("body", truncate(resp.String(), 500)).
				Msg("non-retryable API error, stopping")
			return nil, fmt.Errorf("%w: status %d", domain.ErrPermanent, status)

		default:
			lastErr = fmt.Errorf("upstream status %d", status)
			c.log.Warn().
				Int("status", status).
				Int("attempt", attempt).
				Str("body", truncate(resp.String(), 500)).
				Msg("transient upstream failure")
			if c.policy.ShouldRetry(class, attempt) {
				if !sleepCtx(ctx, c.policy.Backoff(class, attempt)) {
					return nil, ctx.Err()
				}
				continue
			}
		}
		break
	}

	c.log.Error().Err(lastErr).Msg("all retry attempts failed")
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoData, lastErr)
	}
	return nil, domain.ErrNoData
}

// pace enforces the floor between the previous request completing and the
// next one going out, measured on our own clock.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	last := c.lastDone
	c.mu.Unlock()

	if last.IsZero() {
		return nil
	}
	wait := c.opts.RequestDelay - time.Since(last)
	if wait <= 0 {
		return nil
	}
	c.log.Debug().Dur("wait", wait).Msg("rate limiting before request")
	if !sleepCtx(ctx, wait) {
		return ctx.Err()
	}
	return nil
}

func (c *Client) markDone() {
	c.mu.Lock()
	c.lastDone = time.Now()
	c.mu.Unlock()
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
