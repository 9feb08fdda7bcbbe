package controllers

import (
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/gin-tapas-api/internal/auth"
	"github.com/franciscosanchezn/gin-tapas-api/internal/middleware"
	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/gin-gonic/gin"
)

// AuthController handles the password login and the session cookie
type AuthController struct {
	gate         *auth.Gate
	throttle     *auth.LoginThrottle
	secureCookie bool
}

// NewAuthController creates a new AuthController; secureCookie restricts the cookie to HTTPS
func NewAuthController(gate *auth.Gate, throttle *auth.LoginThrottle, secureCookie bool) *AuthController {
	return &AuthController{
		gate:         gate,
		throttle:     throttle,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary Log in
// @Description Check the admin password and open a session (HttpOnly cookie plus token in the body)
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{password=string} true "Admin password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 429 {object} models.Response
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, models.CodeBadRequest, "password is required")
		return
	}

	clientKey := c.ClientIP()
	if wait := ac.throttle.WaitSeconds(clientKey); wait > 0 {
		c.Header("Retry-After", fmt.Sprint(wait))
		respondError(c, fmt.Errorf("%w: retry in %d seconds", models.ErrTooManyAttempts, wait), models.CodeNotFound)
		return
	}

	if !ac.gate.CheckPassword(req.Password) {
		ac.throttle.RecordFailure(clientKey)
		log.WithField("client_ip", clientKey).Warn("Failed login attempt")
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Incorrect password"))
		return
	}
	ac.throttle.RecordSuccess(clientKey)

	token, _, err := ac.gate.IssueToken()
	if err != nil {
		respondError(c, err, models.CodeNotFound)
		return
	}

	maxAge := int(ac.gate.TTL().Seconds())
	ac.setSessionCookie(c, token, maxAge)
	log.WithField("client_ip", clientKey).Info("Admin logged in")

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"token_type": "Bearer",
		"expires_in": maxAge,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.Response
// @Router /api/auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, models.Response{Success: true})
}

// Status godoc
// @Summary Session status
// @Description Report whether the session cookie holds a valid credential
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/status [get]
func (ac *AuthController) Status(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false})
		return
	}

	if _, err := ac.gate.Authenticate(token); err != nil {
		ac.setSessionCookie(c, "", -1)
		c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": true})
}

// Verify godoc
// @Summary Verify a token
// @Description Check a credential passed in the body
// @Tags auth
// @Accept json
// @Produce json
// @Param token body object{token=string} true "Credential to check"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.Response
// @Router /api/auth/verify [post]
func (ac *AuthController) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Token is required"))
		return
	}

	if _, err := ac.gate.Authenticate(req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Invalid token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "valid": true})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", ac.secureCookie, true)
}
