package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjid/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// Error is rendered as {"error": Message} with status Code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *Error)
type HandlerFunc func(ctx *gin.Context) (any, *Error)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		respond(ctx, func() (any, *Error) { return h(ctx, user) })
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		respond(ctx, func() (any, *Error) { return h(ctx) })
	}
}

// respond writes the handler's result as JSON unless the handler already
// wrote its own body (files, HTML, calendars).
func respond(ctx *gin.Context, call func() (any, *Error)) {
	result, apiErr := call()
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if ctx.Writer.Written() {
		return
	}
	if result == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
