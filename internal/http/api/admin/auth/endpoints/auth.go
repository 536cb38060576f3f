package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// SessionRevoker ends a token before its expiry. *redis.Sessions implements it.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthPublicModule mounts public auth endpoints (/auth/signup, /auth/login).
// Signup only works while no administrator exists yet.
func AuthPublicModule(jwtSecret string, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, store, nil)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/signup", ctl.userSignup)
		c.PUBLIC_POST("/auth/login", ctl.userLogin)
	})
}

// AuthSessionModule mounts private session/profile endpoints (JWT required).
// sessions may be nil, in which case logout only tells the client to drop its token.
func AuthSessionModule(jwtSecret string, store db.Store, sessions SessionRevoker) api.Module {
	ctl := newAccountManager(jwtSecret, store, sessions)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/auth/logout", ctl.userLogout)
		c.POST("/auth/users", ctl.createAdmin)
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
		c.PUT("/auth/current_profile", ctl.updateCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret string
	store     db.Store
	sessions  SessionRevoker
}

func newAccountManager(secret string, store db.Store, sessions SessionRevoker) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: store, sessions: sessions}
}

// POST /api/admin/auth/signup
func (a *AccountManager) userSignup(ctx *gin.Context) (any, *api.Error) {
	count, err := a.store.CountUsers()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not check administrators"}
	}
	if count > 0 {
		log.Warn().Msg("signup attempted after first administrator was created")
		return nil, &api.Error{Code: http.StatusForbidden, Message: "signup is closed, ask an administrator for an account"}
	}

	id, apiErr := a.register(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return a.issueToken(id)
}

// POST /api/admin/auth/users
func (a *AccountManager) createAdmin(ctx *gin.Context, user *model.User) (any, *api.Error) {
	id, apiErr := a.register(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	log.Info().Int("created_by", user.ID).Int("user", id).Msg("administrator created")

	created, err := a.store.GetUserByID(id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not fetch new user"}
	}
	return profile(created), nil
}

func (a *AccountManager) register(ctx *gin.Context) (int, *api.Error) {
	var request packets.SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return 0, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if existing, _ := a.store.GetUserByEmail(request.Email); existing != nil {
		log.Warn().Str("email", request.Email).Msg("signup email already registered")
		return 0, &api.Error{Code: http.StatusConflict, Message: "email already registered"}
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return 0, &api.Error{Code: http.StatusInternalServerError, Message: "could not hash password"}
	}

	userID, err := a.store.CreateUser(request.Email, hashed, request.Name)
	if err != nil {
		return 0, &api.Error{Code: http.StatusInternalServerError, Message: "could not create user"}
	}
	return userID, nil
}

// POST /api/admin/auth/login
func (a *AccountManager) userLogin(ctx *gin.Context) (any, *api.Error) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	foundUser, err := a.store.GetUserByEmail(request.Email)
	if err != nil || foundUser == nil || !middleware.CheckPassword(foundUser.HashedPassword, request.Password) {
		return nil, &api.Error{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	return a.issueToken(foundUser.ID)
}

func (a *AccountManager) issueToken(userID int) (any, *api.Error) {
	token, err := middleware.GenerateJWT(userID, a.jwtSecret)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}
	return packets.TokenResponse{Token: token, ExpiresIn: int64(middleware.TokenLifetime / time.Second)}, nil
}

// POST /api/admin/auth/logout
func (a *AccountManager) userLogout(ctx *gin.Context, user *model.User) (any, *api.Error) {
	session, ok := middleware.GetSession(ctx)
	if !ok {
		return nil, &api.Error{Code: http.StatusUnauthorized, Message: "unauthorized"}
	}
	if a.sessions == nil {
		log.Debug().Int("user", user.ID).Msg("logout without session store, token stays valid until expiry")
		return nil, nil
	}
	if err := a.sessions.Revoke(ctx.Request.Context(), session.TokenID, session.ExpiresAt); err != nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "could not end session"}
	}
	log.Info().Int("user", user.ID).Msg("user logged out")
	return nil, nil
}

// GET /api/admin/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.Error) {
	return profile(user), nil
}

// PUT /api/admin/auth/current_profile
func (a *AccountManager) updateCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.Error) {
	var request packets.UpdateCurrentProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.Email != user.Email {
		if other, _ := a.store.GetUserByEmail(request.Email); other != nil {
			return nil, &api.Error{Code: http.StatusConflict, Message: "email already in use"}
		}
	}

	if err := a.store.UpdateUserProfile(user.ID, request.Email, request.Name); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not update profile"}
	}

	updated, err := a.store.GetUserByID(user.ID)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not fetch updated profile"}
	}
	return profile(updated), nil
}

func profile(u *model.User) packets.ProfileResponse {
	return packets.ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
