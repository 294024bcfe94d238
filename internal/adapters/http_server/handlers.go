// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"traveloka_rates/internal/app"
	"traveloka_rates/internal/domain"
)

type Handlers struct{ S *app.ScrapeService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// scrapeRequest is the inbound DTO: a SearchRequest plus optional display
// name for the envelope.
type scrapeRequest struct {
	domain.SearchRequest
	HotelName string `json:"hotel_name,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/rates", h.postRates)
	s.mux.Post("/v1/deeplink", h.postDeepLink)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// postRates runs one scrape. The envelope always comes back with HTTP 200;
// upstream failure is reported inside it (success=false) so callers have a
// single shape to handle.
func (h *Handlers) postRates(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON search request")
		return
	}
	res := h.S.Scrape(r.Context(), req.SearchRequest, req.HotelName)
	writeJSON(w, http.StatusOK, res)
}

// postDeepLink formats the shareable search URL without touching the
// upstream; useful for building links ahead of a scrape.
func (h *Handlers) postDeepLink(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON search request")
		return
	}
	if err := req.Validate(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deep_link": domain.DeepLink(req.SearchRequest)})
}
