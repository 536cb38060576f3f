package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestMountGroupPublicEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	MountGroup(r, GroupConfig{Prefix: "/api"}, ModuleFunc(func(c *Controller) {
		c.PUBLIC_GET("/ok", func(*gin.Context) (any, *Error) { return gin.H{"ok": true}, nil })
		c.PUBLIC_GET("/bad", func(*gin.Context) (any, *Error) {
			return nil, &Error{Code: http.StatusUnprocessableEntity, Message: "no solution"}
		})
		c.PUBLIC_POST("/empty", func(*gin.Context) (any, *Error) { return nil, nil })
		c.PUBLIC_GET("/raw", func(ctx *gin.Context) (any, *Error) {
			ctx.String(http.StatusOK, "BEGIN:VCALENDAR")
			return nil, nil
		})
	}))

	w := serve(r, http.MethodGet, "/api/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/bad")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"no solution"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/api/empty").Code)

	w = serve(r, http.MethodGet, "/api/raw")
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())
}

func TestAuthenticatedEndpointWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// no auth middleware, so there is never a current user
	MountGroup(r, GroupConfig{Prefix: "/api/admin"}, ModuleFunc(func(c *Controller) {
		c.GET("/dashboard", func(*gin.Context, *model.User) (any, *Error) { return "unreachable", nil })
	}))

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/admin/dashboard").Code)
}
