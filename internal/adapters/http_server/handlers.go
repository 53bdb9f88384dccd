package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"review_demand/internal/app"
	"review_demand/internal/domain"
)

const (
	maxPlacesLimit  = 60 // text search returns at most three pages of 20
	maxReviewsLimit = 10000
	maxListLimit    = 100
)

// DemandAPI is the part of the application service the handlers need.
type DemandAPI interface {
	BuildReport(ctx context.Context, p app.Params) (domain.Report, error)
	LatestReport(ctx context.Context, category, city string) (domain.ReportRecord, error)
	RecentReports(ctx context.Context, limit int) ([]domain.ReportRecord, error)
}

type Handlers struct{ Svc DemandAPI }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/demand", h.getDemand)
	s.mux.Get("/v1/demand/latest", h.getLatest)
	s.mux.Get("/v1/reports", h.listReports)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeTagged writes v as JSON with a weak ETag, answering 304 when the client
// already holds this version.
func writeTagged(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "response could not be encoded")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// intParam parses an optional bounded integer query parameter.
func intParam(r *http.Request, name string, def, lo, hi int) (int, bool) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func target(r *http.Request) (string, string, bool) {
	q := r.URL.Query()
	category, city := strings.TrimSpace(q.Get("category")), strings.TrimSpace(q.Get("city"))
	return category, city, category != "" && city != ""
}

func (h *Handlers) getDemand(w http.ResponseWriter, r *http.Request) {
	category, city, ok := target(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Missing parameters", "category and city are required")
		return
	}
	minReviews, ok := intParam(r, "min_reviews", app.DefaultMinReviews, 1, maxReviewsLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid min_reviews", "min_reviews must be an integer between 1 and 10000")
		return
	}
	maxPlaces, ok := intParam(r, "max_places", app.DefaultMaxPlaces, 1, maxPlacesLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid max_places", "max_places must be an integer between 1 and 60")
		return
	}

	rep, err := h.Svc.BuildReport(r.Context(), app.Params{
		Category: category, City: city, MinReviews: minReviews, MaxPlaces: maxPlaces,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeProblem(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			writeProblem(w, http.StatusGatewayTimeout, "Timeout", "analysis did not finish in time")
		default:
			log.Error().Err(err).Str("category", category).Str("city", city).Msg("build report failed")
			writeProblem(w, http.StatusBadGateway, "Upstream failure", "review source unavailable")
		}
		return
	}
	writeTagged(w, r, rep)
}

func (h *Handlers) getLatest(w http.ResponseWriter, r *http.Request) {
	category, city, ok := target(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Missing parameters", "category and city are required")
		return
	}
	rec, err := h.Svc.LatestReport(r.Context(), category, city)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no report stored for this category and city")
			return
		}
		log.Error().Err(err).Str("category", category).Str("city", city).Msg("latest report failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "report lookup failed")
		return
	}
	writeTagged(w, r, rec)
}

func (h *Handlers) listReports(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r, "limit", 20, 1, maxListLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
		return
	}
	recs, err := h.Svc.RecentReports(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list reports failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "report listing failed")
		return
	}
	writeTagged(w, r, recs)
}
