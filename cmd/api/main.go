package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "traveloka_rates/internal/adapters/http_server"
	"traveloka_rates/internal/adapters/observability"
	redisad "traveloka_rates/internal/adapters/redis"
	"traveloka_rates/internal/adapters/traveloka"
	"traveloka_rates/internal/app"
	"traveloka_rates/internal/domain"
	"traveloka_rates/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

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

	var cache domain.Cache
	if cfg.CacheResponses {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		cache = rc
		log.Info().Str("addr", cfg.RedisAddr).Msg("response cache enabled")
	}

	svc := app.NewScrapeService(client, cache, cfg.CacheTTL, app.Defaults{
		Currency:         cfg.DefaultCurrency,
		Language:         cfg.DefaultLanguage,
		GuestNationality: cfg.DefaultNationality,
	}, log.Logger)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
