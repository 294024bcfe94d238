package shared

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Upstream tunables
	BaseURL      string
	RequestDelay time.Duration
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	UserAgent    string

	// Session material, obtained out of band from a real browser
	WAFToken    string
	CookiesFile string
	ProxyURL    string

	// Search defaults
	DefaultCurrency    string
	DefaultLanguage    string
	DefaultNationality string

	// One-shot output
	OutputFile string
	HotelID    string
	HotelName  string

	// Optional response cache
	CacheResponses bool
	CacheTTL       time.Duration
	RedisAddr      string
	RedisPass      string
	RedisDB        int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		BaseURL:      env("TRAVELOKA_BASE_URL", "https://www.traveloka.com"),
		RequestDelay: secs("REQUEST_DELAY_SECONDS", 3),
		Timeout:      secs("TIMEOUT_SECONDS", 30),
		MaxRetries:   atoi("MAX_RETRIES", 3),
		RetryDelay:   secs("RETRY_DELAY_SECONDS", 5),
		UserAgent:    env("BROWSER_USER_AGENT", ""),

		WAFToken:    env("AWS_WAF_TOKEN", ""),
		CookiesFile: env("COOKIES_FILE", ""),
		ProxyURL:    env("PROXY_URL", ""),

		DefaultCurrency:    env("DEFAULT_CURRENCY", "THB"),
		DefaultLanguage:    env("DEFAULT_LANGUAGE", "en"),
		DefaultNationality: env("DEFAULT_GUEST_NATIONALITY", "TH"),

		OutputFile: env("OUTPUT_FILE", "traveloka_rates.json"),
		HotelID:    env("HOTEL_ID", ""),
		HotelName:  env("HOTEL_NAME", ""),

		CacheResponses: env("CACHE_RESPONSES", "") == "true",
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
	}
	if c.WAFToken == "" {
		log.Warn().Msg("AWS_WAF_TOKEN is empty; the upstream will refuse requests")
	}
	return c
}

// SessionCookies reads the optional cookies file: a flat JSON object of
// cookie name to value, pasted from the browser session that solved the
// CAPTCHA.
func (c Config) SessionCookies() (map[string]string, error) {
	if c.CookiesFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(c.CookiesFile)
	if err != nil {
		return nil, err
	}
	var cookies map[string]string
	if err := json.Unmarshal(b, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
