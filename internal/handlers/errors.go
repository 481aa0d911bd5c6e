package handlers

import (
	"log"
	"net/http"

	"Camp/internal/apperr"
	"Camp/internal/auth"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash_id"

// HandlerFunc is a gin handler that reports failure instead of writing it.
type HandlerFunc func(*gin.Context) error

// Wrap adapts a HandlerFunc to gin, pushing any failure into the request's
// error chain. Wherever in the call chain the failure originated, it surfaces
// here the same way.
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// ErrorRenderer is the single terminal consumer of every typed failure.
// Nothing else in the process writes an error response.
type ErrorRenderer struct {
	flashes      *auth.Flashes
	cookieSecure bool
}

// NewErrorRenderer returns a new ErrorRenderer.
func NewErrorRenderer(flashes *auth.Flashes, cookieSecure bool) *ErrorRenderer {
	return &ErrorRenderer{flashes: flashes, cookieSecure: cookieSecure}
}

// Middleware renders the last failure pushed during the request, if any.
func (r *ErrorRenderer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		r.render(c, c.Errors.Last().Err)
	}
}

// NoRoute converts unmatched paths into a typed not-found failure instead of
// letting them fall through silently.
func (r *ErrorRenderer) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("page not found"))
	}
}

func (r *ErrorRenderer) render(c *gin.Context, err error) {
	e := apperr.From(err)
	msg := e.Message
	if msg == "" {
		msg = apperr.DefaultMessage
	}
	switch e.Kind {
	case apperr.KindUnauthenticated:
		// Redirect-class: send the user to the login entry point with a
		// one-time notice rather than a bare 401.
		r.setFlash(c, msg)
		c.Redirect(http.StatusSeeOther, "/login")
	case apperr.KindInternal:
		log.Printf("internal error: %v", err)
		c.JSON(e.Status(), gin.H{"error": msg})
	default:
		c.JSON(e.Status(), gin.H{"error": msg})
	}
}

func (r *ErrorRenderer) setFlash(c *gin.Context, notice string) {
	id, err := r.flashes.Put(c.Request.Context(), notice)
	if err != nil {
		return
	}
	c.SetCookie(flashCookieName, id, 300, "/", "", r.cookieSecure, true)
}
