package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// DashboardModule mounts GET /dashboard
func DashboardModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/dashboard", func(ctx *gin.Context, user *model.User) (any, *api.Error) {
			stats, err := store.Stats(time.Now())
			if err != nil {
				return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not load dashboard"}
			}
			return stats, nil
		})
	})
}
