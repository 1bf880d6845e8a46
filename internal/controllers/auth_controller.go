package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/middleware"
	"eld_tracker/internal/services"
)

type registerInput struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthController exposes registration and the token lifecycle over HTTP.
type AuthController struct {
	drivers *services.DriverService
}

func NewAuthController(drivers *services.DriverService) *AuthController {
	return &AuthController{drivers: drivers}
}

func (a *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := a.drivers.Register(services.RegisterInput{
		FullName: input.FullName,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})
	if err != nil {
		logrus.WithError(err).WithField("email", input.Email).Warn("Driver registration failed.")
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Driver registered successfully",
		"username":      driver.Username,
		"uniqueId":      driver.UniqueID.String(),
		"accountNumber": driver.AccountNumber,
	})
}

func (a *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := a.drivers.Login(input.Email, input.Password)
	if err != nil {
		logrus.WithError(err).WithField("email", input.Email).Warn("Login failed.")
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	token, err := middleware.GenerateToken(driver.UniqueID, driver.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.TokenCookieName, token, int(middleware.TokenValidity.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"driver":  driver,
	})
}

// Logout only directs the client to discard the credential; the token
// itself stays valid until expiry.
func (a *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// VerifyToken re-validates the cookie and answers with the current driver
// record, re-checking the account flags.
func (a *AuthController) VerifyToken(c *gin.Context) {
	tokenStr, _ := c.Cookie(middleware.TokenCookieName)
	claims, err := middleware.ParseToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	driver, err := a.drivers.ResolveActive(claims.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}
