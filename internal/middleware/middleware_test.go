package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bulletin-api/internal/models"
	appErrors "github.com/noah-isme/bulletin-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.JWTClaims
}

func (f fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return f.claims, nil
}

type fakeObserver struct {
	method string
	path   string
	status int
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	f.method, f.path, f.status = method, path, status
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Claims(c).UserID})
	})...)
	return r
}

func perform(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	validator := fakeValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleViewer}}
	r := newRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Bearer bad").Code)

	w := perform(r, "bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1"}`, w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	viewer := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleViewer}}), AdminOnly())
	assert.Equal(t, http.StatusForbidden, perform(viewer, "Bearer good").Code)

	admin := newRouter(JWT(fakeValidator{claims: &models.JWTClaims{UserID: "u2", Role: models.RoleAdmin}}), AdminOnly())
	assert.Equal(t, http.StatusOK, perform(admin, "Bearer good").Code)

	anonymous := newRouter(AdminOnly())
	assert.Equal(t, http.StatusUnauthorized, perform(anonymous, "").Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/42", nil))
	assert.Equal(t, "/students/:id", observer.path)
	assert.Equal(t, http.StatusNoContent, observer.status)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, "unmatched", observer.path)
	assert.Equal(t, http.StatusNotFound, observer.status)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/cached", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ResponseMeta(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
