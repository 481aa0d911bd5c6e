package handlers

import (
	"net/http"

	"Camp/internal/apperr"
	"Camp/internal/auth"
	"Camp/internal/dto"
	"Camp/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the one session cookie policy, derived from the single
// SessionConfig. Every handler that touches the cookie shares this value.
type SessionCookie struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthHandler handles register, login and logout.
type AuthHandler struct {
	sessions *auth.Store
	flashes  *auth.Flashes
	strategy auth.Strategy
	users    *service.UserService
	cookie   SessionCookie
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions *auth.Store, flashes *auth.Flashes, strategy auth.Strategy, users *service.UserService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{sessions: sessions, flashes: flashes, strategy: strategy, users: users, cookie: cookie}
}

// RegisterForm godoc
// @Summary      Registration form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /register [get]
func (h *AuthHandler) RegisterForm(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{
		"form":  gin.H{"username": "string", "email": "string", "password": "string"},
		"flash": h.takeFlash(c),
	})
	return nil
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      303
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) error {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.FromBindError(err)
	}
	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, "/campgrounds")
	return nil
}

// LoginForm godoc
// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{
		"form":  gin.H{"username": "string", "password": "string"},
		"flash": h.takeFlash(c),
	})
	return nil
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      303
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) error {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.FromBindError(err)
	}
	userID, err := h.strategy.Verify(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/campgrounds")
	return nil
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Security     CookieAuth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) error {
	token, err := c.Cookie(h.cookie.Name)
	if err == nil && token != "" {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			return err
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/login")
	return nil
}

// takeFlash consumes the pending one-time notice, if any. The carrying
// cookie is cleared either way.
func (h *AuthHandler) takeFlash(c *gin.Context) string {
	id, err := c.Cookie(flashCookieName)
	if err != nil || id == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", h.cookie.Secure, true)
	notice, ok := h.flashes.Take(c.Request.Context(), id)
	if !ok {
		return ""
	}
	return notice
}
