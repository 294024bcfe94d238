package domain

// RateRecord is one priced, bookable room/fare combination in the
// simplified output schema. Price, Currency and TotalPrice are always set;
// OriginalPrice only appears when a discount was detected.
type RateRecord struct {
	RoomName           string   `json:"room_name"`
	RateName           string   `json:"rate_name"`
	NumberOfGuests     int      `json:"number_of_guests"`
	CancellationPolicy string   `json:"cancellation_policy"`
	Breakfast          string   `json:"breakfast"`
	Currency           string   `json:"currency"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"original_price,omitempty"`
	TotalPrice         float64  `json:"total_price"`
	TotalTaxes         float64  `json:"total_taxes"`

	// Per-night breakdown, when the upstream response carries it.
	ShownPricePerStay *float64 `json:"shown_price_per_stay,omitempty"`
	NetPricePerStay   *float64 `json:"net_price_per_stay,omitempty"`
	TotalPricePerStay *float64 `json:"total_price_per_stay,omitempty"`
}

const (
	CancellationNotSpecified = "Not specified"
	BreakfastIncluded        = "Included"
	BreakfastNotIncluded     = "Not included"
)

// ScrapeResult is the envelope returned for every scrape call, failed ones
// included: callers never have to special-case a missing envelope.
type ScrapeResult struct {
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	HotelID     string       `json:"hotel_id"`
	HotelName   string       `json:"hotel_name,omitempty"`
	CheckIn     StayDate     `json:"check_in"`
	CheckOut    StayDate     `json:"check_out"`
	NumAdults   int          `json:"num_adults"`
	NumChildren int          `json:"num_children"`
	NumRooms    int          `json:"num_rooms"`
	Currency    string       `json:"currency"`
	DeepLink    string       `json:"deep_link"`
	Timestamp   string       `json:"timestamp"`
	Rates       []RateRecord `json:"rates"`
}
