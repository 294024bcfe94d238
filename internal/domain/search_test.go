package domain_test

import (
	"errors"
	"testing"

	"traveloka_rates/internal/domain"
)

func req(inD, inM, inY, outD, outM, outY string) domain.SearchRequest {
	return domain.SearchRequest{
		HotelID:   "H1",
		CheckIn:   domain.StayDate{Day: inD, Month: inM, Year: inY},
		CheckOut:  domain.StayDate{Day: outD, Month: outM, Year: outY},
		NumAdults: 2,
		NumRooms:  1,
		Currency:  "THB",
	}
}

func TestNights(t *testing.T) {
	cases := []struct {
		name string
		r    domain.SearchRequest
		want int
	}{
		{"single night", req("15", "12", "2025", "16", "12", "2025"), 1},
		{"week", req("1", "6", "2025", "8", "6", "2025"), 7},
		{"month boundary", req("31", "1", "2025", "1", "2", "2025"), 1},
		{"year boundary", req("31", "12", "2025", "1", "1", "2026"), 1},
		{"leap february", req("28", "2", "2024", "1", "3", "2024"), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.r.Nights()
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("nights = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNightsInvalidDate(t *testing.T) {
	cases := []struct {
		name string
		r    domain.SearchRequest
	}{
		{"garbage day", req("banana", "12", "2025", "16", "12", "2025")},
		{"month 13", req("15", "13", "2025", "16", "12", "2025")},
		{"nonexistent feb 30", req("30", "2", "2025", "2", "3", "2025")},
		{"empty year", req("15", "12", "", "16", "12", "2025")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.r.Nights(); !errors.Is(err, domain.ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate, got %v", err)
			}
		})
	}
}

func TestValidateRejectsNonPositiveStay(t *testing.T) {
	zero := req("15", "12", "2025", "15", "12", "2025")
	if err := zero.Validate(); err == nil {
		t.Fatal("expected zero-night stay to be rejected")
	}
	backwards := req("16", "12", "2025", "15", "12", "2025")
	if err := backwards.Validate(); err == nil {
		t.Fatal("expected check-out before check-in to be rejected")
	}
}

func TestValidateRejectsNegativeCounts(t *testing.T) {
	r := req("15", "12", "2025", "16", "12", "2025")
	r.NumChildren = -1
	if err := r.Validate(); err == nil {
		t.Fatal("expected negative child count to be rejected")
	}
}

func TestValidateRequiresHotelID(t *testing.T) {
	r := req("15", "12", "2025", "16", "12", "2025")
	r.HotelID = ""
	if err := r.Validate(); err == nil {
		t.Fatal("expected missing hotel id to be rejected")
	}
}

func TestApplyDefaults(t *testing.T) {
	var r domain.SearchRequest
	r.ApplyDefaults("THB", "en", "TH")
	if r.NumAdults != 2 || r.NumRooms != 1 || r.Currency != "THB" || r.Language != "en" || r.GuestNationality != "TH" {
		t.Fatalf("defaults not applied: %+v", r)
	}

	r = domain.SearchRequest{NumAdults: 3, Currency: "USD"}
	r.ApplyDefaults("THB", "en", "TH")
	if r.NumAdults != 3 || r.Currency != "USD" {
		t.Fatalf("explicit values must win over defaults: %+v", r)
	}
}
