package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seminaires/backend/internal/models"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeResolver map[string]models.Session

func (f fakeResolver) CurrentSession(_ context.Context, token string) (models.Session, bool) {
	sess, ok := f[token]
	return sess, ok
}

func newRouter(resolver SessionResolver) *gin.Engine {
	r := gin.New()
	r.Use(LoadSession(resolver, "session"))
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })
	protected := r.Group("")
	protected.Use(RequireSession())
	protected.GET("/demandes", func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).Username)
	})
	return r
}

func TestRequireSession(t *testing.T) {
	r := newRouter(fakeResolver{"good": {ID: "sid", UserID: 1, Username: "admin"}})

	t.Run("no cookie redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demandes", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?next=%2Fdemandes", rec.Header().Get("Location"))
		assert.NotContains(t, rec.Body.String(), "admin")
	})

	t.Run("unknown token redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/demandes", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("valid session passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/demandes", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin", rec.Body.String())
	})

	t.Run("public routes stay public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSessionFromEmptyContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, SessionFrom(c).Valid())
}

func TestLoggerIncludesUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(LoadSession(fakeResolver{"good": {ID: "sid", UserID: 1, Username: "admin"}}, "session"))
	r.Use(Logger(zap.New(core)))
	r.GET("/organismes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/organismes", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "admin", fields["user"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	}
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/demandes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/demandes/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/demandes/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/demandes/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}
