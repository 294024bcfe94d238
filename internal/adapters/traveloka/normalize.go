package traveloka

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"traveloka_rates/internal/domain"
)

/********** tiny lookup helpers over untyped JSON **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}

func lookupFloat(m map[string]any, path string) (float64, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func lookupSlice(m map[string]any, path string) []any {
	if s, ok := lookupAny(m, path).([]any); ok {
		return s
	}
	return nil
}

func floatOr(m map[string]any, path string, def float64) float64 {
	if v, ok := lookupFloat(m, path); ok {
		return v
	}
	return def
}

/********** shape sniffing **********/

// responseShape tags the two rooms-API response variants seen in the wild.
type responseShape int

const (
	shapeUnknown responseShape = iota
	shapeRooms                 // data.rooms[].rates[]
	shapeInventory             // data.recommendedEntries[].hotelRoomInventoryList[]
)

func sniffShape(doc map[string]any) responseShape {
	if lookupSlice(doc, "data.rooms") != nil {
		return shapeRooms
	}
	if lookupSlice(doc, "data.recommendedEntries") != nil {
		return shapeInventory
	}
	return shapeUnknown
}

// extractRates flattens a raw rooms-API response into RateRecords. One
// malformed entry is skipped with a warning and never aborts the batch.
func extractRates(doc map[string]any, fallbackCurrency string, log zerolog.Logger) []domain.RateRecord {
	var out []domain.RateRecord

	switch sniffShape(doc) {
	case shapeRooms:
		for _, r := range lookupSlice(doc, "data.rooms") {
			room, ok := r.(map[string]any)
			if !ok {
				log.Warn().Msg("skipping non-object room entry")
				continue
			}
			roomName := lookupStr(room, "name")
			for _, rt := range lookupSlice(room, "rates") {
				rate, ok := rt.(map[string]any)
				if !ok {
					log.Warn().Str("room", roomName).Msg("skipping non-object rate entry")
					continue
				}
				rec, err := normalizeRoomRate(roomName, rate, fallbackCurrency)
				if err != nil {
					log.Warn().Err(err).Str("room", roomName).Msg("skipping malformed rate")
					continue
				}
				out = append(out, rec)
			}
		}

	case shapeInventory:
		for _, e := range lookupSlice(doc, "data.recommendedEntries") {
			entry, ok := e.(map[string]any)
			if !ok {
				log.Warn().Msg("skipping non-object recommended entry")
				continue
			}
			roomName := lookupStr(entry, "roomName")
			for _, iv := range lookupSlice(entry, "hotelRoomInventoryList") {
				inv, ok := iv.(map[string]any)
				if !ok {
					log.Warn().Str("room", roomName).Msg("skipping non-object inventory entry")
					continue
				}
				rec, err := normalizeInventory(roomName, inv, fallbackCurrency)
				if err != nil {
					log.Warn().Err(err).Str("room", roomName).Msg("skipping malformed inventory")
					continue
				}
				out = append(out, rec)
			}
		}

	default:
		log.Warn().Msg("response matched no known shape; emitting zero rates")
	}

	log.Info().Int("rates", len(out)).Msg("extracted rates from response")
	return out
}

// normalizeRoomRate handles the data.rooms variant. Displayed price falls
// back shownPrice -> netPrice; a discount exists when shown < net.
func normalizeRoomRate(roomName string, rate map[string]any, fallbackCurrency string) (domain.RateRecord, error) {
	price, ok := lookupAny(rate, "price").(map[string]any)
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("rate has no price object")
	}

	netPrice, ok := lookupFloat(price, "netPrice")
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("rate has no netPrice")
	}
	shownPrice := floatOr(price, "shownPrice", netPrice)
	totalPrice := floatOr(price, "totalPrice", shownPrice)

	currency := lookupStr(rate, "currency")
	if currency == "" {
		currency = fallbackCurrency
	}

	rec := domain.RateRecord{
		RoomName:           roomName,
		RateName:           lookupStr(rate, "name"),
		NumberOfGuests:     int(floatOr(rate, "occupancy.numAdults", 0) + floatOr(rate, "occupancy.numChildren", 0)),
		CancellationPolicy: cancellationFromPolicies(rate),
		Breakfast:          breakfastFromIncludes(rate),
		Currency:           currency,
		Price:              shownPrice,
		TotalPrice:         totalPrice,
		TotalTaxes:         floatOr(price, "taxes.totalTaxAmount", 0),
	}

	if shownPrice < netPrice {
		orig := netPrice
		rec.OriginalPrice = &orig
	}

	if v, ok := lookupFloat(price, "shownPricePerNight"); ok && v != 0 {
		shown := v
		net := floatOr(price, "netPricePerNight", netPrice)
		total := floatOr(price, "totalPricePerNight", totalPrice)
		rec.ShownPricePerStay = &shown
		rec.NetPricePerStay = &net
		rec.TotalPricePerStay = &total
	}

	return rec, nil
}

// normalizeInventory handles the recommendedEntries variant, which carries
// an explicit original total instead of a shown/net pair.
func normalizeInventory(roomName string, inv map[string]any, fallbackCurrency string) (domain.RateRecord, error) {
	total, ok := lookupFloat(inv, "rateDisplay.totalFare.amount")
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("inventory has no totalFare amount")
	}

	currency := lookupStr(inv, "rateDisplay.totalFare.currency")
	if currency == "" {
		currency = fallbackCurrency
	}

	rec := domain.RateRecord{
		RoomName:           roomName,
		RateName:           lookupStr(inv, "name"),
		NumberOfGuests:     int(floatOr(inv, "occupancy.numAdults", 0) + floatOr(inv, "occupancy.numChildren", 0)),
		CancellationPolicy: domain.CancellationNotSpecified,
		Breakfast:          domain.BreakfastNotIncluded,
		Currency:           currency,
		Price:              total,
		TotalPrice:         total,
		TotalTaxes:         floatOr(inv, "rateDisplay.totalTaxes.amount", 0),
	}

	if p := lookupStr(inv, "cancellationPolicy"); p != "" {
		rec.CancellationPolicy = p
	}
	if included, ok := lookupAny(inv, "isBreakfastIncluded").(bool); ok && included {
		rec.Breakfast = domain.BreakfastIncluded
	} else if disp := lookupStr(inv, "breakfastDisplay"); disp != "" {
		rec.Breakfast = disp
	}

	// Explicit original total marks a discount on this shape.
	if orig, ok := lookupFloat(inv, "rateDisplay.originalTotalFare.amount"); ok && orig > total {
		o := orig
		rec.OriginalPrice = &o
	}

	return rec, nil
}

func breakfastFromIncludes(rate map[string]any) string {
	for _, inc := range lookupSlice(rate, "includes") {
		m, ok := inc.(map[string]any)
		if !ok {
			continue
		}
		if strings.EqualFold(lookupStr(m, "id"), "free_breakfast") {
			return domain.BreakfastIncluded
		}
	}
	return domain.BreakfastNotIncluded
}

func cancellationFromPolicies(rate map[string]any) string {
	for _, p := range lookupSlice(rate, "policies") {
		m, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if strings.EqualFold(lookupStr(m, "type"), "cancellation") {
			return lookupStr(m, "description")
		}
	}
	return domain.CancellationNotSpecified
}
