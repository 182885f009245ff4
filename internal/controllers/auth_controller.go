package controllers

import (
	"errors"
	"net/http"
	"time"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/middleware"
	"ideaforge-be/internal/models"
	"ideaforge-be/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthController creates the auth handlers. secureCookie marks the session cookie HTTPS-only.
func NewAuthController(authService service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Register handles POST /api/v1/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   bindErrorMessage(err, "Invalid request body"),
			"details": err.Error(),
		})
		return
	}

	response, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An account with this email already exists.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Registration failed. Please try again.",
		})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /api/v1/auth/login and sets the session cookie
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   bindErrorMessage(err, "Invalid request body"),
			"details": err.Error(),
		})
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Login failed. Please try again.",
		})
		return
	}

	maxAge := int(time.Until(response.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, response.Token, maxAge, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"user":    response,
	})
}

// Logout handles POST /api/v1/auth/logout. It always clears the cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.secureCookie, true)

	if err := ac.authService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Logout failed. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You have been logged out.",
	})
}
