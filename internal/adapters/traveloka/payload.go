package traveloka

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"traveloka_rates/internal/domain"
)

// SearchContexts is the opaque continuation blob the rooms API hands back
// for follow-up searches. Zero value means a fresh search.
type SearchContexts struct {
	SearchContext  string `json:"searchContext"`
	SortContext    string `json:"sortContext"`
	FilterContext  string `json:"filterContext"`
	PricingContext string `json:"pricingContext"`
}

// Continuation links a request to a prior search on the same session.
type Continuation struct {
	Contexts     SearchContexts
	PrevSearchID string
}

type monitoringSpec struct {
	Referrer    string `json:"referrer"`
	LastKeyword string `json:"lastKeyword"`
}

// marketingCapsule mimics the analytics identifiers the web front end
// attaches to every rooms call. The values are static except timestamps.
type marketingCapsule struct {
	AmplitudeDeviceID  string `json:"amplitude_device_id"`
	AmplitudeSessionID int64  `json:"amplitude_session_id"`
	ClientUserAgent    string `json:"client_user_agent"`
	FBBrowserID        string `json:"fb_browser_id_fbp"`
	GAClientID         string `json:"ga_client_id"`
	GASessionID        string `json:"ga_session_id"`
	PageFullURL        string `json:"page_full_url"`
	Timestamp          string `json:"timestamp"`
}

type payloadData struct {
	Contexts                SearchContexts   `json:"contexts"`
	PrevSearchID            string           `json:"prevSearchId"`
	NumInfants              int              `json:"numInfants"`
	LabelContext            struct{}         `json:"labelContext"`
	MonitoringSpec          monitoringSpec   `json:"monitoringSpec"`
	HotelDetailURL          string           `json:"hotelDetailURL"`
	MarketingContextCapsule marketingCapsule `json:"marketingContextCapsule"`
	ShouldDisplayAllRooms   bool             `json:"shouldDisplayAllRooms"`
	SourceIdentifier        string           `json:"sourceIdentifier"`
}

type ccGuaranteeOptions struct {
	CCInfoPreferences             []string `json:"ccInfoPreferences"`
	CCGuaranteeRequirementOptions []string `json:"ccGuaranteeRequirementOptions"`
}

// roomsPayload is the full request body for the rooms API.
type roomsPayload struct {
	ClientInterface             string             `json:"clientInterface"`
	TID                         string             `json:"tid"`
	Fields                      []string           `json:"fields"`
	Data                        payloadData        `json:"data"`
	CCGuaranteeOptions          ccGuaranteeOptions `json:"ccGuaranteeOptions"`
	CheckInDate                 domain.StayDate    `json:"checkInDate"`
	CheckOutDate                domain.StayDate    `json:"checkOutDate"`
	ChildAges                   []int              `json:"childAges"`
	Currency                    string             `json:"currency"`
	HasPromoLabel               bool               `json:"hasPromoLabel"`
	HotelID                     string             `json:"hotelId"`
	IsExtraBedIncluded          bool               `json:"isExtraBedIncluded"`
	IsJustLogin                 bool               `json:"isJustLogin"`
	IsReschedule                bool               `json:"isReschedule"`
	NumAdults                   int                `json:"numAdults"`
	NumChildren                 int                `json:"numChildren"`
	NumOfNights                 int                `json:"numOfNights"`
	NumRooms                    int                `json:"numRooms"`
	Preview                     bool               `json:"preview"`
	RateTypes                   []string           `json:"rateTypes"`
	SupportedRoomHighlightTypes []string           `json:"supportedRoomHighlightTypes"`
}

const capsuleDeviceID = "F1Up8i860MRVqAZjCanqM5"

// buildPayload assembles the rooms request for one search. Every call gets
// a fresh transaction id; nights come from the stay dates.
func buildPayload(req domain.SearchRequest, cont *Continuation, userAgent string, now time.Time) (roomsPayload, error) {
	nights, err := req.Nights()
	if err != nil {
		return roomsPayload{}, err
	}

	if cont == nil {
		cont = &Continuation{PrevSearchID: "undefined"}
	}

	detailURL := fmt.Sprintf(
		"https://www.traveloka.com/en-th/hotel/detail?spec=%s-%s-%s.%s-%s-%s.%d.%d.HOTEL.%s",
		req.CheckIn.Day, req.CheckIn.Month, req.CheckIn.Year,
		req.CheckOut.Day, req.CheckOut.Month, req.CheckOut.Year,
		req.NumRooms, req.NumAdults, req.HotelID,
	)

	childAges := req.ChildAges
	if childAges == nil {
		childAges = []int{}
	}

	unix := now.Unix()
	ms := now.UnixMilli()

	p := roomsPayload{
		ClientInterface: "desktop",
		TID:             uuid.NewString(),
		Fields:          []string{},
		Data: payloadData{
			Contexts:       cont.Contexts,
			PrevSearchID:   cont.PrevSearchID,
			NumInfants:     req.NumInfants,
			MonitoringSpec: monitoringSpec{},
			HotelDetailURL: detailURL,
			MarketingContextCapsule: marketingCapsule{
				AmplitudeDeviceID:  capsuleDeviceID,
				AmplitudeSessionID: ms,
				ClientUserAgent:    userAgent,
				FBBrowserID:        "fb.1.1764514737732.977017059618964463",
				GAClientID:         "613465115.1764514738",
				GASessionID:        fmt.Sprintf("s%d$o1$g0$t%d$j1$l0$h1", unix, unix),
				PageFullURL:        detailURL,
				Timestamp:          fmt.Sprintf("%d", ms),
			},
			ShouldDisplayAllRooms: false,
			SourceIdentifier:      "HOTEL_DETAIL",
		},
		CCGuaranteeOptions: ccGuaranteeOptions{
			CCInfoPreferences:             []string{"CC_TOKEN", "CC_FULL_INFO"},
			CCGuaranteeRequirementOptions: []string{"CC_GUARANTEE"},
		},
		CheckInDate:                 req.CheckIn,
		CheckOutDate:                req.CheckOut,
		ChildAges:                   childAges,
		Currency:                    req.Currency,
		HotelID:                     req.HotelID,
		IsExtraBedIncluded:          true,
		NumAdults:                   req.NumAdults,
		NumChildren:                 req.NumChildren,
		NumOfNights:                 nights,
		NumRooms:                    req.NumRooms,
		RateTypes:                   []string{"PAY_NOW", "PAY_AT_PROPERTY"},
		SupportedRoomHighlightTypes: []string{"ROOM"},
	}
	return p, nil
}
