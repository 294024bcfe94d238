package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

const siteBaseURL = "https://www.traveloka.com"

// DeepLink formats a shareable search URL reproducing the request on the
// booking site's own front end. Pure string work; dates are zero-padded to
// YYYYMMDD and parameters URL-encoded.
func DeepLink(r SearchRequest) string {
	q := url.Values{}
	q.Set("hotelId", r.HotelID)
	q.Set("checkIn", compactDate(r.CheckIn))
	q.Set("checkOut", compactDate(r.CheckOut))
	q.Set("room", strconv.Itoa(r.NumRooms))
	q.Set("adult", strconv.Itoa(r.NumAdults))
	q.Set("child", strconv.Itoa(r.NumChildren))
	q.Set("currency", r.Currency)
	return siteBaseURL + "/en/hotel/search?" + q.Encode()
}

func compactDate(d StayDate) string {
	return fmt.Sprintf("%s%s%s", d.Year, pad2(d.Month), pad2(d.Day))
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
