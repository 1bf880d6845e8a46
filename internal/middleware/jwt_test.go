package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/models"
	"eld_tracker/internal/services"
	"eld_tracker/testutil"
)

func TestGenerateAndParseToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, "alice@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UniqueID)
	assert.Equal(t, "alice@example.com", claims.Email)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, TokenValidity-time.Minute)
	assert.LessOrEqual(t, remaining, TokenValidity)
}

func TestParseTokenFailures(t *testing.T) {
	_, err := ParseToken("")
	assert.ErrorIs(t, err, apperrors.ErrMissingToken)

	_, err = ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	expired := Claims{
		UniqueID: uuid.NewString(),
		Email:    "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)

	// valid signature and expiry but no identity inside
	anonymous := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, anonymous).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRequireAuthTracksAccountState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	drivers := services.NewDriverService(db)

	driver, err := drivers.Register(services.RegisterInput{
		FullName: "Alice Driver",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	token, err := GenerateToken(driver.UniqueID, driver.Email)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", RequireAuth(drivers), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString("email")})
	})

	do := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do(token).Code)
	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("garbage").Code)

	// the token is still signed and unexpired, but the account is gone
	require.NoError(t, db.Model(&models.Driver{}).Where("email = ?", driver.Email).Update("is_deleted", true).Error)
	assert.Equal(t, http.StatusUnauthorized, do(token).Code)
}
