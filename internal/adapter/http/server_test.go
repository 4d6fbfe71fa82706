package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/mbti-climate-service/internal/adapter/http"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	wideCSV = "Country,INTJ,INTP,ENTJ,INFP\n" +
		"South Korea,1,1,1,2\n" +
		"Norway,2,2,2,4\n" +
		"Atlantis,5,5,5,5\n"
	capitalsCSV = "CountryName,CapitalLatitude,CapitalLongitude,ContinentName\n" +
		"\"Korea, Republic of\",37.55,126.98,Asia\n" +
		"Norway,59.91,10.75,Europe\n"
	topology = `{"type":"Topology","objects":{},"arcs":[]}`
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubWorld struct {
	err error
}

func (s stubWorld) World(_ context.Context, _ string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(topology), nil
}

func newTestServer(t *testing.T, world httpadapter.WorldSource) *httpadapter.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(nil, "", nil, logger, observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", p, world, httpadapter.Options{
		WorldSrc:       "world.json",
		MaxUploadBytes: 1 << 16,
	}, logger)
}

func do(srv http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, srv http.Handler, csv string) *httptest.ResponseRecorder {
	t.Helper()
	return do(srv, http.MethodPost, "/api/v1/dataset?name=mbti.csv", strings.NewReader(csv), "text/csv")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_BeforeAndAfterUpload(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	rec = do(srv, http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/metrics", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDatasetEndpoints_404BeforeUpload(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{
		"/api/v1/summary", "/api/v1/canonical", "/api/v1/normalized", "/api/v1/geo",
		"/api/v1/groups", "/api/v1/correlations", "/api/v1/view",
	} {
		rec := do(srv, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "no dataset loaded", decode[map[string]string](t, rec)["error"])
	}
}

func TestUpload_RawBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := upload(t, srv, wideCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[domain.Summary](t, rec)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "mbti.csv", summary.Source)
	assert.Equal(t, "utf-8", summary.Encoding)
	assert.Equal(t, domain.ShapeWide, summary.Shape)
	assert.Equal(t, 3, summary.Countries)
	assert.False(t, summary.ReferenceAvailable)
}

func TestUpload_MultipartWithCapitals(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("data", "countries.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(wideCSV))
	fw, err = mw.CreateFormFile("capitals", "capitals.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(capitalsCSV))
	require.NoError(t, mw.Close())

	srv := newTestServer(t, nil)
	rec := do(srv, http.MethodPost, "/api/v1/dataset", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[domain.Summary](t, rec)
	assert.Equal(t, "countries.csv", summary.Source)
	assert.True(t, summary.ReferenceAvailable)
	assert.Equal(t, 2, summary.Matched)

	geo := decode[domain.GeoTable](t, do(srv, http.MethodGet, "/api/v1/geo", nil, ""))
	require.Len(t, geo.Records, 3)
	assert.Equal(t, "Asia", geo.Records[0].Continent)
	assert.Equal(t, domain.Temperate, geo.Records[0].ClimateZone)
	assert.Equal(t, domain.UnknownContinent, geo.Records[2].Continent)
}

func TestUpload_MultipartUnreadableCapitalsDegrades(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("data", "countries.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(wideCSV))
	fw, err = mw.CreateFormFile("capitals", "caps.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("   \n"))
	require.NoError(t, mw.Close())

	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/dataset", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[domain.Summary](t, rec)
	assert.False(t, summary.ReferenceAvailable)
	assert.Zero(t, summary.Matched)
	assert.Equal(t, 3, summary.Countries)
	require.NotEmpty(t, summary.Warnings)
	assert.Contains(t, summary.Warnings[len(summary.Warnings)-1], "reference data unavailable")
}

func TestUpload_MultipartMissingData(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "hello"))
	require.NoError(t, mw.Close())

	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/dataset", &body, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"empty", "", http.StatusBadRequest, "empty input"},
		{"no country column", "INFP,INTJ\n1,2\n", http.StatusUnprocessableEntity, "schema error"},
		{"unrecognized layout", "Country,INFP,Note\nKorea,1,x\n", http.StatusUnprocessableEntity, "shape error"},
		{"too large", "Country,INFP\n" + strings.Repeat("Korea,1\n", 10000), http.StatusRequestEntityTooLarge, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, newTestServer(t, nil), tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.errMsg)
		})
	}
}

func TestNormalized_Formats(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	wide := decode[domain.NormalizedTable](t, do(srv, http.MethodGet, "/api/v1/normalized", nil, ""))
	require.Len(t, wide.Rows, 3)
	assert.InDelta(t, 40.0, wide.Rows[0].Scores.Get(domain.INFP).Float, 1e-9)
	assert.False(t, wide.Rows[0].Scores.Get(domain.ESFP).Valid)

	long := decode[[]domain.LongRecord](t, do(srv, http.MethodGet, "/api/v1/normalized?format=long", nil, ""))
	assert.Len(t, long, 3*domain.TypeCount)

	rec := do(srv, http.MethodGet, "/api/v1/normalized?format=tall", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCanonicalAndCorrelations(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	canonical := decode[domain.CanonicalTable](t, do(srv, http.MethodGet, "/api/v1/canonical", nil, ""))
	assert.Equal(t, "Country", canonical.CountryColumn)
	assert.Equal(t, domain.Some(2), canonical.Rows[0].Scores.Get(domain.INFP), "canonical values are not normalized")

	corr := decode[[]domain.Correlation](t, do(srv, http.MethodGet, "/api/v1/correlations", nil, ""))
	assert.Len(t, corr, domain.TypeCount)
}

func TestGroups(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	groups := decode[[]domain.GroupSummary](t, do(srv, http.MethodGet, "/api/v1/groups?by=climate", nil, ""))
	require.Len(t, groups, 1)
	assert.Equal(t, string(domain.UnknownZone), groups[0].Group)
	assert.Equal(t, 3, groups[0].Countries)

	rec := do(srv, http.MethodGet, "/api/v1/groups?by=planet", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestView(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	rec := do(srv, http.MethodGet, "/api/v1/view?type=intj&top=5&opacity=0.8&continent=Unknown", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[domain.View](t, rec)
	assert.Equal(t, domain.INTJ, view.Config.Type)
	assert.Equal(t, []string{"Unknown"}, view.Config.Continents)
	assert.InDelta(t, 0.8, view.Config.FillOpacity, 1e-9)
	require.Len(t, view.Top, 3)
	assert.Equal(t, 1, view.Top[0].Rank)
	assert.Empty(t, view.Points, "no reference means nothing to draw")
}

func TestView_InvalidConfig(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, upload(t, srv, wideCSV).Code)

	for _, query := range []string{"type=XXXX", "top=100", "top=ten", "bubble=10", "opacity=2", "opacity=NaN", "climate=Arid"} {
		rec := do(srv, http.MethodGet, "/api/v1/view?"+query, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestWorld(t *testing.T) {
	rec := do(newTestServer(t, stubWorld{}), http.MethodGet, "/api/v1/world", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, topology, rec.Body.String())

	rec = do(newTestServer(t, stubWorld{err: errors.New("cdn down")}), http.MethodGet, "/api/v1/world", nil, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(newTestServer(t, nil), http.MethodGet, "/api/v1/world", nil, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
