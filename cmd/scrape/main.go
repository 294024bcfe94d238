// One-shot scrape: reads the search from the environment, runs it, writes
// the result envelope as JSON.
package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"traveloka_rates/internal/adapters/observability"
	"traveloka_rates/internal/adapters/traveloka"
	"traveloka_rates/internal/app"
	"traveloka_rates/internal/domain"
	"traveloka_rates/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.HotelID == "" {
		log.Fatal().Msg("HOTEL_ID is required")
	}

	req := domain.SearchRequest{
		HotelID: cfg.HotelID,
		CheckIn: domain.StayDate{
			Day:   env("CHECK_IN_DAY", ""),
			Month: env("CHECK_IN_MONTH", ""),
			Year:  env("CHECK_IN_YEAR", ""),
		},
		CheckOut: domain.StayDate{
			Day:   env("CHECK_OUT_DAY", ""),
			Month: env("CHECK_OUT_MONTH", ""),
			Year:  env("CHECK_OUT_YEAR", ""),
		},
		NumAdults:   atoi("NUM_ADULTS", 2),
		NumChildren: atoi("NUM_CHILDREN", 0),
		NumRooms:    atoi("NUM_ROOMS", 1),
		Currency:    cfg.DefaultCurrency,
	}

	cookies, err := cfg.SessionCookies()
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CookiesFile).Msg("reading cookies file failed")
	}

	client, err := traveloka.New(
		domain.AuthContext{WAFToken: cfg.WAFToken, Cookies: cookies},
		traveloka.Options{
			BaseURL:      cfg.BaseURL,
			ProxyURL:     cfg.ProxyURL,
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.Timeout,
			RequestDelay: cfg.RequestDelay,
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize traveloka client")
	}

	svc := app.NewScrapeService(client, nil, 0, app.Defaults{
		Currency:         cfg.DefaultCurrency,
		Language:         cfg.DefaultLanguage,
		GuestNationality: cfg.DefaultNationality,
	}, log.Logger)

	res := svc.Scrape(ctx, req, cfg.HotelName)

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal result failed")
	}
	if err := os.WriteFile(cfg.OutputFile, b, 0o644); err != nil {
		log.Fatal().Err(err).Str("file", cfg.OutputFile).Msg("write result failed")
	}

	log.Info().
		Bool("success", res.Success).
		Int("rates", len(res.Rates)).
		Str("deep_link", res.DeepLink).
		Str("file", cfg.OutputFile).
		Msg("scrape finished")
	if !res.Success {
		os.Exit(1)
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
