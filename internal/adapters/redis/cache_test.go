package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "traveloka_rates/internal/adapters/redis"
	"traveloka_rates/internal/domain"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var got domain.ScrapeResult
	ok, err := c.Get(ctx, "rates:missing", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for absent key")
	}

	want := domain.ScrapeResult{
		Success:  true,
		HotelID:  "H1",
		Currency: "THB",
		Rates: []domain.RateRecord{
			{RoomName: "Deluxe", RateName: "Flexible", Price: 1000, Currency: "THB", TotalPrice: 1180},
		},
	}
	if err := c.Set(ctx, "rates:H1", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err = c.Get(ctx, "rates:H1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.HotelID != "H1" || len(got.Rates) != 1 || got.Rates[0].Price != 1000 {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	if err := c.Del(ctx, "rates:H1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "rates:H1", &got)
	if ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "rates:ttl", domain.ScrapeResult{HotelID: "H2"}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got domain.ScrapeResult
	ok, _ := c.Get(ctx, "rates:ttl", &got)
	if ok {
		t.Fatal("expected entry to expire")
	}
}
