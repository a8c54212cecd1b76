package wind

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Aeolus/internal/auth"
	"Aeolus/internal/observability"
	"Aeolus/internal/repo"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioBody = `{"V":"160","exposure":"C","I":"1.00","h":"6","L":"20","B":"10","theta":"15","enclosure":"Cerrado"}`

func newHandler() (*Handler, *repo.Memory) {
	runs := repo.NewMemory()
	return &Handler{Runs: runs, Metrics: observability.NewMetricsForTesting()}, runs
}

func authed(req *http.Request, id int) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), id))
}

func TestHandlerCalc(t *testing.T) {
	h, runs := newHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/wind/calc?model=simplified", strings.NewReader(scenarioBody))
	h.Calc(rec, authed(req, 3))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Model        string  `json:"model"`
		Qh           float64 `json:"qh"`
		Longitudinal struct {
			Rows []struct {
				Kind string  `json:"kind"`
				PPos float64 `json:"p_pos"`
			} `json:"rows"`
		} `json:"longitudinal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "simplified", got.Model)
	assert.InDelta(t, scenarioQh, got.Qh, 1e-9)
	require.Len(t, got.Longitudinal.Rows, 4)
	assert.Equal(t, "windward_wall", got.Longitudinal.Rows[0].Kind)

	saved, err := runs.ListRuns(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "simplified", saved[0].Model)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.Calculations.WithLabelValues("simplified", "ok")))
}

func TestHandlerCalc_Anonymous(t *testing.T) {
	h, runs := newHandler()
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(scenarioBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	saved, err := runs.ListRuns(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestHandlerCalc_Rejects(t *testing.T) {
	tests := []struct {
		name string
		url  string
		body string
	}{
		{"bad json", "/", `{"V":`},
		{"bad exposure", "/", strings.Replace(scenarioBody, `"C"`, `"Z"`, 1)},
		{"bad model", "/?model=cfd", scenarioBody},
		{"bad units", "/?units=cubits", scenarioBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler()
			rec := httptest.NewRecorder()
			h.Calc(rec, httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlerCalc_CountsInvalid(t *testing.T) {
	h, _ := newHandler()
	body := strings.Replace(scenarioBody, `"C"`, `"Z"`, 1)
	h.Calc(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.Calculations.WithLabelValues("table", "invalid")))
}

func TestHandlerHistory(t *testing.T) {
	h, _ := newHandler()
	for i := 0; i < 3; i++ {
		h.Calc(httptest.NewRecorder(), authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(scenarioBody)), 5))
	}

	rec := httptest.NewRecorder()
	h.History(rec, authed(httptest.NewRequest(http.MethodGet, "/history?limit=2", nil), 5))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []repo.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	rec = httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
