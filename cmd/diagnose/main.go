// Connectivity/auth diagnostic: checks the configured session material,
// probes the site and the rooms endpoint, and reports what it saw. Run it
// when scrapes start failing to tell an expired token apart from an
// endpoint change.
package main

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"traveloka_rates/internal/adapters/observability"
	"traveloka_rates/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger("dev") // console output for humans

	// 1. token
	if cfg.WAFToken != "" {
		log.Info().Int("length", len(cfg.WAFToken)).Str("prefix", prefix(cfg.WAFToken, 16)).Msg("WAF token configured")
	} else {
		log.Error().Msg("WAF token is empty; update AWS_WAF_TOKEN (tokens expire after a few hours)")
	}

	// 2. proxy
	if cfg.ProxyURL != "" {
		log.Info().Str("proxy", cfg.ProxyURL).Msg("proxy configured")
	} else {
		log.Info().Msg("no proxy (direct connection)")
	}

	cookies, err := cfg.SessionCookies()
	if err != nil {
		log.Error().Err(err).Str("file", cfg.CookiesFile).Msg("cookies file unreadable")
	} else {
		log.Info().Int("cookies", len(cookies)).Msg("session cookies loaded")
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "application/json, text/plain, */*")
	if cfg.ProxyURL != "" {
		hc.SetProxy(cfg.ProxyURL)
	}
	if cfg.WAFToken != "" {
		hc.SetCookie(&http.Cookie{Name: "aws-waf-token", Value: cfg.WAFToken})
	}
	for name, value := range cookies {
		hc.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	// 3. simple GET against the site
	if resp, err := hc.R().Get("/"); err != nil {
		log.Error().Err(err).Msg("homepage GET failed; check connectivity/proxy")
	} else if resp.StatusCode() == http.StatusOK {
		log.Info().Msg("homepage reachable with this session")
	} else {
		log.Warn().Int("status", resp.StatusCode()).Msg("homepage returned unexpected status")
	}

	// 4. rooms endpoint probe with a minimal payload
	probe := map[string]any{
		"clientInterface": "desktop",
		"tid":             "diagnose-probe",
		"hotelId":         "9000001153383",
		"checkInDate":     map[string]string{"day": "15", "month": "12", "year": "2025"},
		"checkOutDate":    map[string]string{"day": "16", "month": "12", "year": "2025"},
		"numAdults":       2,
		"numRooms":        1,
		"currency":        cfg.DefaultCurrency,
		"fields":          []string{},
	}
	resp, err := hc.R().
		SetHeader("Content-Type", "application/json").
		SetBody(probe).
		Post("/api/v2/hotel/search/rooms")
	if err != nil {
		log.Error().Err(err).Msg("rooms endpoint probe failed at transport level")
		return
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		log.Info().Int("status", resp.StatusCode()).Msg("rooms endpoint accepted the probe; session looks healthy")
	case http.StatusNotFound:
		log.Error().Msg("rooms endpoint returned 404; the API path may have changed")
	case http.StatusMethodNotAllowed:
		log.Error().Msg("rooms endpoint returned 405; usually an expired or missing WAF token")
	default:
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("body", prefix(resp.String(), 200)).
			Msg("rooms endpoint returned unexpected status")
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
