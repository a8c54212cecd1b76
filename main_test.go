package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Aeolus/internal/config"
	"Aeolus/internal/observability"
	"Aeolus/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		TokenKey:  []byte("test-key"),
		RateLimit: rate.Inf,
		RateBurst: 100,
		WindModel: "simplified",
		WindUnits: "imperial",
	}
	defaults, err := defaultOptions(cfg)
	require.NoError(t, err)

	router := mux.NewRouter()
	HandleList(router, deps{
		cfg:      cfg,
		store:    repo.NewMemory(),
		defaults: defaults,
		metrics:  observability.NewMetricsForTesting(),
	})
	srv := httptest.NewServer(CORS(router))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes_Public(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/user/tools/wind/calc", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRoutes_ToolsRequireSession(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/user/tools/wind/calc", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_RegisterThenCalculate(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/register", "application/json",
		strings.NewReader(`{"login":"ana","email":"ana@example.com","password":"secret1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	post := func(path, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	body := `{"V":"160","exposure":"C","I":"1.00","h":"6","L":"20","B":"10","theta":"15","enclosure":"Cerrado"}`
	for path, contentType := range map[string]string{
		"/api/user/tools/wind/calc":       "application/json",
		"/api/user/tools/wind/report":     "text/markdown; charset=utf-8",
		"/api/user/tools/wind/report/pdf": "application/pdf",
		"/api/user/tools/wind/diagram":    "image/svg+xml",
	} {
		resp := post(path, body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, contentType, resp.Header.Get("Content-Type"), path)
	}

	resp = post("/api/user/tools/wind/calc", strings.Replace(body, `"C"`, `"Z"`, 1))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDefaultOptions_Rejects(t *testing.T) {
	_, err := defaultOptions(&config.Config{WindModel: "cfd"})
	assert.Error(t, err)
	_, err = defaultOptions(&config.Config{WindUnits: "cubits"})
	assert.Error(t, err)
}
