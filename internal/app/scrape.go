package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"traveloka_rates/internal/adapters/observability"
	"traveloka_rates/internal/domain"
)

// Defaults are applied to requests that leave locale/occupancy blank.
type Defaults struct {
	Currency         string
	Language         string
	GuestNationality string
}

// ScrapeService runs one search end to end: validate, fetch normalized
// rates from the upstream, and wrap everything in a ScrapeResult envelope.
// The envelope is always fully formed, failures included.
type ScrapeService struct {
	src      domain.RateSource
	cache    domain.Cache // nil disables caching
	cacheTTL time.Duration
	defaults Defaults
	log      zerolog.Logger
}

func NewScrapeService(src domain.RateSource, cache domain.Cache, ttl time.Duration, d Defaults, log zerolog.Logger) *ScrapeService {
	return &ScrapeService{src: src, cache: cache, cacheTTL: ttl, defaults: d, log: log}
}

func (s *ScrapeService) Scrape(ctx context.Context, req domain.SearchRequest, hotelName string) domain.ScrapeResult {
	req.ApplyDefaults(s.defaults.Currency, s.defaults.Language, s.defaults.GuestNationality)

	if err := req.Validate(); err != nil {
		s.log.Warn().Err(err).Str("hotel_id", req.HotelID).Msg("rejecting invalid search request")
		observability.ObserveScrape("invalid", 0)
		return s.failure(req, hotelName, err.Error())
	}

	key := cacheKey(req)
	if s.cache != nil {
		var cached domain.ScrapeResult
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			s.log.Info().Str("hotel_id", req.HotelID).Msg("serving scrape result from cache")
			return cached
		}
	}

	s.log.Info().Str("hotel_id", req.HotelID).Msg("starting scrape")
	rates, err := s.src.RoomRates(ctx, req)
	if err != nil {
		outcome := "no_data"
		if errors.Is(err, domain.ErrPermanent) {
			outcome = "permanent"
		}
		observability.ObserveScrape(outcome, 0)
		s.log.Error().Err(err).Str("hotel_id", req.HotelID).Msg("scrape failed")
		return s.failure(req, hotelName, "failed to retrieve data from Traveloka API")
	}
	if rates == nil {
		rates = []domain.RateRecord{}
	}

	res := s.envelope(req, hotelName)
	res.Success = true
	res.Rates = rates

	observability.ObserveScrape("ok", len(rates))
	s.log.Info().Str("hotel_id", req.HotelID).Int("rates", len(rates)).Msg("scrape completed")

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds()))
	}
	return res
}

func (s *ScrapeService) envelope(req domain.SearchRequest, hotelName string) domain.ScrapeResult {
	return domain.ScrapeResult{
		HotelID:     req.HotelID,
		HotelName:   hotelName,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		NumAdults:   req.NumAdults,
		NumChildren: req.NumChildren,
		NumRooms:    req.NumRooms,
		Currency:    req.Currency,
		DeepLink:    domain.DeepLink(req),
		Timestamp:   time.Now().Format(time.RFC3339),
		Rates:       []domain.RateRecord{},
	}
}

func (s *ScrapeService) failure(req domain.SearchRequest, hotelName, msg string) domain.ScrapeResult {
	res := s.envelope(req, hotelName)
	res.Success = false
	res.Error = msg
	return res
}

func cacheKey(req domain.SearchRequest) string {
	return fmt.Sprintf("rates:%s:%s%s%s:%s%s%s:%d:%d:%d:%s",
		req.HotelID,
		req.CheckIn.Year, req.CheckIn.Month, req.CheckIn.Day,
		req.CheckOut.Year, req.CheckOut.Month, req.CheckOut.Day,
		req.NumAdults, req.NumChildren, req.NumRooms,
		req.Currency,
	)
}
