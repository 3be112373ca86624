package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chrissnell/functionalflows/internal/storage"
	"github.com/chrissnell/functionalflows/pkg/config"
	"github.com/chrissnell/functionalflows/pkg/responseformat"
)

type staticProvider struct {
	cfg *config.ConfigData
	err error
}

func (p staticProvider) LoadConfig() (*config.ConfigData, error) { return p.cfg, p.err }

func testConfig() *config.ConfigData {
	return &config.ConfigData{
		FirstDayOfWaterYear: 274,
		Components: []config.ComponentData{
			{
				Name:            "fall_pulse",
				Characteristics: []string{"timing", "magnitude"},
				Parameters:      [][]any{{1, 90}, {1, 0.0, ">"}},
				ScoringPattern:  []any{1, 1},
				SuccessPattern:  true,
			},
			{
				Name:            "dry_season",
				Characteristics: []string{"magnitude"},
				Parameters:      [][]any{{1, 1.0, "<"}},
				ScoringPattern:  []any{1},
			},
		},
	}
}

func newTestController(t *testing.T, sc ServerConfig) *Controller {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ctrl, err := NewController(ctx, &sync.WaitGroup{}, staticProvider{cfg: testConfig()}, sc, zap.NewNop().Sugar())
	require.NoError(t, err)
	return ctrl
}

func serve(ctrl *Controller, method, target string, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctrl.Server.Handler.ServeHTTP(rr, req)
	return rr
}

const series = "date,flow\n2022-10-01,1\n2022-10-02,0\n2022-10-03,2\n"

func TestNewControllerDefaults(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	assert.Equal(t, "0.0.0.0:8080", ctrl.Server.Addr)
	assert.EqualValues(t, DefaultMaxBodyBytes, ctrl.serverConfig.MaxBodyBytes)
	assert.Len(t, ctrl.Components, 2)
}

func TestNewControllerErrors(t *testing.T) {
	bad := testConfig()
	bad.Components[0].ScoringPattern = []any{1}

	tests := []struct {
		name     string
		provider config.ConfigProvider
	}{
		{"load failure", staticProvider{err: errors.New("boom")}},
		{"invalid component", staticProvider{cfg: bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewController(context.Background(), &sync.WaitGroup{}, tt.provider, ServerConfig{}, zap.NewNop().Sugar())
			assert.Error(t, err)
		})
	}
}

func TestGetHealth(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Components: 2}, resp)
}

func TestGetComponents(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodGet, "/components", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ComponentsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 274, resp.StartOfWaterYear)
	require.Len(t, resp.Components, 2)
	assert.Equal(t, "fall_pulse", resp.Components[0].Name)
	assert.Equal(t, []string{"fall_pulse_timing", "fall_pulse_magnitude", "fall_pulse_success"}, resp.Components[0].Columns)
	assert.Equal(t, []string{"1", "1"}, resp.Components[0].ScoringPattern)
	assert.Equal(t, "dry_season_failure", resp.Components[1].Columns[1])
}

func TestGetComponent(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})

	rr := serve(ctrl, http.MethodGet, "/components/dry_season", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp ComponentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.SuccessPattern)

	rr = serve(ctrl, http.MethodGet, "/components/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEvaluate(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodPost, "/evaluate", series)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var doc storage.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))

	assert.Equal(t, []int{1, 2, 3}, doc.DayOfWaterYear)
	require.Len(t, doc.Components, 2)
	assert.Equal(t, []int8{1, 0, 1}, doc.Components[0].Values[2])
	assert.Equal(t, []int8{0, 1, 0}, doc.Components[1].Values[1])
	require.Len(t, doc.Summaries, 2)
	assert.Equal(t, 2, doc.Summaries[0].Matched)
}

func TestEvaluateMsgPack(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodPost, "/evaluate?format=msgpack&component=dry_season", series)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/x-msgpack", rr.Header().Get("Content-Type"))

	var doc storage.Document
	require.NoError(t, responseformat.Decode(bytes.NewReader(rr.Body.Bytes()), responseformat.MsgPack, &doc))
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "dry_season", doc.Components[0].Name)
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		sc     ServerConfig
		status int
	}{
		{"missing flow column", "/evaluate", "date,discharge\n2022-10-01,1\n", ServerConfig{}, http.StatusBadRequest},
		{"bad date", "/evaluate", "date,flow\nyesterday,1\n", ServerConfig{}, http.StatusBadRequest},
		{"empty body", "/evaluate", "", ServerConfig{}, http.StatusBadRequest},
		{"unknown units", "/evaluate?units=cfs", series, ServerConfig{}, http.StatusBadRequest},
		{"unknown component", "/evaluate?component=nope", series, ServerConfig{}, http.StatusNotFound},
		{"body too large", "/evaluate", series, ServerConfig{MaxBodyBytes: 8}, http.StatusRequestEntityTooLarge},
		{"unknown format", "/evaluate?format=xml", series, ServerConfig{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(t, tt.sc)
			rr := serve(ctrl, http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.status, rr.Code)
			var resp responseformat.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetComponentsRejectsUnknownFormat(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodGet, "/components?format=xml", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp responseformat.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "unknown format")
}

func TestEvaluateRejectsGet(t *testing.T) {
	ctrl := newTestController(t, ServerConfig{})
	rr := serve(ctrl, http.MethodGet, "/evaluate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

