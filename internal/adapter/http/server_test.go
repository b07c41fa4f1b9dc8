package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/crop-advisor/internal/adapter/http"
	"github.com/couchcryptid/crop-advisor/internal/advisor"
	"github.com/couchcryptid/crop-advisor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockAdvisor struct {
	report  domain.Report
	err     error
	cities  []string
	gotCity string
	gotQ    string
	gotMax  int
}

func (m *mockAdvisor) Search(_ context.Context, city string) (domain.Report, error) {
	m.gotCity = city
	return m.report, m.err
}

func (m *mockAdvisor) Suggest(query string, limit int) []string {
	m.gotQ, m.gotMax = query, limit
	return m.cities
}

func (m *mockAdvisor) Scorer() *domain.Scorer {
	return domain.NewScorer(domain.DefaultCatalog())
}

func newTestServer(adv *mockAdvisor, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", adv, &mockReadiness{err: readyErr}, []string{"*"}, slog.Default())
}

func serve(t *testing.T, srv *httpadapter.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, fmt.Errorf("soil table empty")), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRecommendations(t *testing.T) {
	adv := &mockAdvisor{report: domain.Report{
		City:        "Kolkata",
		Recommended: []string{"Rice", "Maize", "Cotton"},
	}}

	rec := serve(t, newTestServer(adv, nil), http.MethodGet, "/api/recommendations?city=Kolkata", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Kolkata", adv.gotCity)

	var body struct {
		City        string   `json:"city"`
		Recommended []string `json:"recommended"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Kolkata", body.City)
	assert.Equal(t, []string{"Rice", "Maize", "Cotton"}, body.Recommended)
}

func TestRecommendations_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty city", advisor.ErrEmptyCity, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: Atlantis", advisor.ErrCityNotFound), http.StatusNotFound},
		{"upstream", errors.New("geocode: 503"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newTestServer(&mockAdvisor{err: tt.err}, nil), http.MethodGet, "/api/recommendations?city=x", "")
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestScore(t *testing.T) {
	payload := `{"temperature_c":28,"humidity_percent":70,"average_hourly_rainfall_mm":0.3,"soil_ph":6.2}`
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodPost, "/api/score", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Recommended       []string `json:"recommended"`
		NoSoilData        bool     `json:"no_soil_data"`
		MonthlyRainfallMm float64  `json:"monthly_rainfall_mm"`
		Crops             []struct {
			Name    string  `json:"name"`
			Penalty float64 `json:"penalty"`
		} `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Rice", "Maize", "Cotton"}, body.Recommended)
	assert.False(t, body.NoSoilData)
	assert.InDelta(t, 216.0, body.MonthlyRainfallMm, 1e-9)
	require.Len(t, body.Crops, 3)
	assert.Equal(t, "rice", body.Crops[0].Name)
}

func TestScore_AllCrops(t *testing.T) {
	payload := `{"temperature_c":28,"humidity_percent":70,"average_hourly_rainfall_mm":0.3,"soil_ph":6.2}`
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodPost, "/api/score?all=true", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Crops []json.RawMessage `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Crops, domain.DefaultCatalog().Len())
}

func TestScore_NullPHReturnsSentinel(t *testing.T) {
	payload := `{"temperature_c":25,"humidity_percent":50,"average_hourly_rainfall_mm":0.1,"soil_ph":null}`
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodPost, "/api/score", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Recommended []string          `json:"recommended"`
		NoSoilData  bool              `json:"no_soil_data"`
		Crops       []json.RawMessage `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.NoSoilData)
	assert.Equal(t, []string{domain.NoSoilDataSentinel}, body.Recommended)
	assert.NotNil(t, body.Crops)
	assert.Empty(t, body.Crops)
}

func TestScore_BadBody(t *testing.T) {
	for _, payload := range []string{`{`, `{"temperature_c":"hot"}`, `{"wind":3}`} {
		rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodPost, "/api/score", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
	}
}

func TestCities(t *testing.T) {
	adv := &mockAdvisor{cities: []string{"Pune", "Puducherry"}}
	rec := serve(t, newTestServer(adv, nil), http.MethodGet, "/api/cities?q=pu&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Pune", "Puducherry"}, body["cities"])
	assert.Equal(t, "pu", adv.gotQ)
	assert.Equal(t, 5, adv.gotMax)
}

func TestCities_EmptyAndBadLimit(t *testing.T) {
	adv := &mockAdvisor{}
	rec := serve(t, newTestServer(adv, nil), http.MethodGet, "/api/cities?q=z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cities":[]}`, rec.Body.String())
	assert.Equal(t, 10, adv.gotMax)

	rec = serve(t, newTestServer(adv, nil), http.MethodGet, "/api/cities?q=z&limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrops(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodGet, "/api/crops", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Crops []domain.CropProfile `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Crops, domain.DefaultCatalog().Len())
	assert.Equal(t, "rice", body.Crops[0].Name)
	assert.InDelta(t, 20.0, body.Crops[0].Temperature.Min, 0)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&mockAdvisor{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/score", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIs404(t *testing.T) {
	rec := serve(t, newTestServer(&mockAdvisor{}, nil), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
