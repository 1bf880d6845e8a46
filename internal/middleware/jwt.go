package middleware

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/services"
)

// TokenCookieName is the http-only cookie the credential travels in.
const TokenCookieName = "token"

// TokenValidity is the fixed window from issuance after which a token
// expires. There is no revocation; account flags are re-checked on every
// verification instead.
const TokenValidity = 15 * 24 * time.Hour

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// Claims is the signed token payload.
type Claims struct {
	UniqueID string `json:"uniqueId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token carrying the driver's id and email.
func GenerateToken(driverID uuid.UUID, email string) (string, error) {
	claims := Claims{
		UniqueID: driverID.String(),
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken checks signature and expiry and returns the claims.
func ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperrors.ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !token.Valid || claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RequireAuth validates the token cookie and re-resolves the driver, so a
// token issued to an account that was since deleted or deactivated stops
// working. On success the driver's email and id are stored in the context.
func RequireAuth(drivers *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, _ := c.Cookie(TokenCookieName)
		claims, err := ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		driver, err := drivers.ResolveActive(claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("email", driver.Email)
		c.Set("driver_id", driver.UniqueID.String())
		c.Next()
	}
}
