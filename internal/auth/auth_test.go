package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"Aeolus/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-key")

func newEnv() *Env {
	return &Env{JWTKey: testKey, Repo: repo.NewMemory()}
}

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-User", strconv.Itoa(id))
		w.WriteHeader(http.StatusOK)
	})
}

func TestRegisterThenLoginSetsCookie(t *testing.T) {
	env := newEnv()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"ana","email":"ana@example.com","password":"secret1"}`))
	env.RegisterHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"ana","password":"secret1"}`))
	env.LoginHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"ana","email":"ana@example.com","password":"123"}`))
	newEnv().RegisterHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	env := newEnv()
	body := `{"login":"ana","email":"ana@example.com","password":"secret1"}`
	env.RegisterHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	rec := httptest.NewRecorder()
	env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newEnv()
	env.RegisterHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"login":"ana","email":"ana@example.com","password":"secret1"}`)))

	rec := httptest.NewRecorder()
	env.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"ana","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	env.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"ghost","password":"secret1"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware(t *testing.T) {
	env := newEnv()
	h := env.Middleware(protected())

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := env.IssueToken(7, "ana")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7", rec.Header().Get("X-User"))
	})

	t.Run("foreign key", func(t *testing.T) {
		other := &Env{JWTKey: []byte("other")}
		token, err := other.IssueToken(7, "ana")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 7, "login": "ana"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
