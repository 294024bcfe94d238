package domain

import (
	"fmt"
	"time"
)

// StayDate is a calendar date split the way the upstream API expects it:
// day/month/year as decimal strings, no zero padding required.
type StayDate struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

func (d StayDate) Time() (time.Time, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(d.Day, "%d", &day); err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", ErrInvalidDate, d.Day)
	}
	if _, err := fmt.Sscanf(d.Month, "%d", &month); err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidDate, d.Month)
	}
	if _, err := fmt.Sscanf(d.Year, "%d", &year); err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q", ErrInvalidDate, d.Year)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %s-%s-%s", ErrInvalidDate, d.Year, d.Month, d.Day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2); reject that.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %s-%s-%s does not exist", ErrInvalidDate, d.Year, d.Month, d.Day)
	}
	return t, nil
}

// SearchRequest describes one room-rate lookup. Immutable for the duration
// of a scrape call.
type SearchRequest struct {
	HotelID          string   `json:"hotel_id"`
	CheckIn          StayDate `json:"check_in"`
	CheckOut         StayDate `json:"check_out"`
	NumAdults        int      `json:"num_adults"`
	NumChildren      int      `json:"num_children"`
	ChildAges        []int    `json:"child_ages,omitempty"`
	NumInfants       int      `json:"num_infants"`
	NumRooms         int      `json:"num_rooms"`
	Currency         string   `json:"currency"`
	Language         string   `json:"language"`
	GuestNationality string   `json:"guest_nationality"`
}

// ApplyDefaults fills zero-valued occupancy and locale fields.
func (r *SearchRequest) ApplyDefaults(currency, language, nationality string) {
	if r.NumAdults == 0 {
		r.NumAdults = 2
	}
	if r.NumRooms == 0 {
		r.NumRooms = 1
	}
	if r.Currency == "" {
		r.Currency = currency
	}
	if r.Language == "" {
		r.Language = language
	}
	if r.GuestNationality == "" {
		r.GuestNationality = nationality
	}
}

func (r SearchRequest) Validate() error {
	if r.HotelID == "" {
		return fmt.Errorf("hotel id is required")
	}
	if r.NumAdults < 0 || r.NumChildren < 0 || r.NumInfants < 0 || r.NumRooms < 0 {
		return fmt.Errorf("occupancy counts must be non-negative")
	}
	n, err := r.Nights()
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("check-out must be after check-in (got %d nights)", n)
	}
	return nil
}

// Nights returns the stay length in calendar days. Month and year
// boundaries fall out of time.Sub: Dec 31 -> Jan 1 is one night.
func (r SearchRequest) Nights() (int, error) {
	in, err := r.CheckIn.Time()
	if err != nil {
		return 0, err
	}
	out, err := r.CheckOut.Time()
	if err != nil {
		return 0, err
	}
	return int(out.Sub(in).Hours() / 24), nil
}

// AuthContext carries the externally obtained credentials: the AWS WAF
// token proving a solved bot challenge plus whatever session cookies came
// with it. The caller replaces it when requests start failing; nothing
// here refreshes it.
type AuthContext struct {
	WAFToken string            `json:"waf_token"`
	Cookies  map[string]string `json:"cookies,omitempty"`
}
