package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

const (
	currentUserKey = "currentUser"
	sessionKey     = "session"

	TokenLifetime = 72 * time.Hour
)

// Session identifies one issued token.
type Session struct {
	UserID    int
	TokenID   string
	ExpiresAt time.Time
}

type UserLookup interface {
	GetUserByID(id int) (*model.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// signs a token embedding userID in the "sub" claim and a fresh "jti".
func GenerateJWT(userID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(TokenLifetime).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// verifies the JWT and returns its session.
func parseToken(tokenString, secret string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Session{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Session{}, errors.New("invalid sub claim")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return Session{}, errors.New("invalid jti claim")
	}
	exp, _ := claims["exp"].(float64)

	return Session{
		UserID:    int(sub),
		TokenID:   jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// checks "Authorization: Bearer <token>", verifies it, rejects revoked
// sessions, loads the user, and sets "currentUser" in context.
func JWTMiddleware(secret string, users UserLookup, sessions RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header"})
			return
		}

		session, err := parseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if sessions != nil {
			revoked, err := sessions.IsRevoked(c.Request.Context(), session.TokenID)
			if err != nil {
				log.Error().Err(err).Str("jti", session.TokenID).Msg("session check failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session ended"})
				return
			}
		}

		user, err := users.GetUserByID(session.UserID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.Set(currentUserKey, user)
		c.Set(sessionKey, session)
		c.Next()
	}
}
