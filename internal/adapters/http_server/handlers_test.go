package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	server "traveloka_rates/internal/adapters/http_server"
	"traveloka_rates/internal/app"
	"traveloka_rates/internal/domain"
)

type stubSource struct {
	rates []domain.RateRecord
	err   error
}

func (s *stubSource) RoomRates(ctx context.Context, req domain.SearchRequest) ([]domain.RateRecord, error) {
	return s.rates, s.err
}

func newServer(src domain.RateSource) *server.Server {
	svc := app.NewScrapeService(src, nil, time.Minute,
		app.Defaults{Currency: "THB", Language: "en", GuestNationality: "TH"}, zerolog.Nop())
	srv := server.New()
	srv.MountHandlers(&server.Handlers{S: svc})
	return srv
}

const rateBody = `{
	"hotel_id": "H1",
	"hotel_name": "Novotel Hua Hin",
	"check_in": {"day": "15", "month": "12", "year": "2025"},
	"check_out": {"day": "16", "month": "12", "year": "2025"},
	"num_adults": 2,
	"num_rooms": 1,
	"currency": "THB"
}`

func TestPostRates_Success(t *testing.T) {
	src := &stubSource{rates: []domain.RateRecord{
		{RoomName: "Deluxe", RateName: "Room Only", Price: 1000, Currency: "THB", TotalPrice: 1000},
	}}
	srv := newServer(src)

	req := httptest.NewRequest(http.MethodPost, "/v1/rates", strings.NewReader(rateBody))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res domain.ScrapeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !res.Success || len(res.Rates) != 1 || res.HotelName != "Novotel Hua Hin" {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestPostRates_UpstreamFailureStillReturnsEnvelope(t *testing.T) {
	srv := newServer(&stubSource{err: domain.ErrNoData})

	req := httptest.NewRequest(http.MethodPost, "/v1/rates", strings.NewReader(rateBody))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("envelope failures still use 200, got %d", rec.Code)
	}
	var res domain.ScrapeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if res.Success || res.Error == "" || res.DeepLink == "" {
		t.Fatalf("failure envelope incomplete: %+v", res)
	}
}

func TestPostRates_BadJSON(t *testing.T) {
	srv := newServer(&stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/v1/rates", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestPostDeepLink(t *testing.T) {
	srv := newServer(&stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/v1/deeplink", strings.NewReader(rateBody))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !strings.Contains(out["deep_link"], "checkIn=20251215") {
		t.Fatalf("unexpected deep link: %q", out["deep_link"])
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(&stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
