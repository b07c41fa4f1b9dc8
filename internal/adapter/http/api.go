package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/crop-advisor/internal/advisor"
	"github.com/couchcryptid/crop-advisor/internal/domain"
)

const (
	maxBodyBytes      = 1 << 20
	defaultSuggestMax = 10
)

// scoreResponse is the body of POST /api/score.
type scoreResponse struct {
	Recommended       []string            `json:"recommended"`
	NoSoilData        bool                `json:"no_soil_data"`
	MonthlyRainfallMm float64             `json:"monthly_rainfall_mm"`
	Crops             []domain.ScoredCrop `json:"crops"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")

	report, err := s.advisor.Search(r.Context(), city)
	switch {
	case errors.Is(err, advisor.ErrEmptyCity):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, advisor.ErrCityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("search failed", "city", city, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch data for "+strings.TrimSpace(city))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var obs domain.ObservedConditions
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid conditions: "+err.Error())
		return
	}

	scorer := s.advisor.Scorer()
	rec := scorer.Recommend(obs)
	resp := scoreResponse{
		Recommended:       rec.Names(),
		NoSoilData:        rec.NoSoilData,
		MonthlyRainfallMm: obs.MonthlyRainfallMm(),
		Crops:             rec.Crops,
	}
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		resp.Crops = scorer.Rank(obs)
	}
	if resp.Crops == nil {
		resp.Crops = []domain.ScoredCrop{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	limit := defaultSuggestMax
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cities := s.advisor.Suggest(r.URL.Query().Get("q"), limit)
	if cities == nil {
		cities = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cities": cities})
}

func (s *Server) handleCrops(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.CropProfile{
		"crops": s.advisor.Scorer().Catalog().Profiles(),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
