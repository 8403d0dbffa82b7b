package response

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/flash"
)

// FlashCookie is the cookie holding queued flash messages.
const FlashCookie = "flash"

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// PushFlash queues a message for the next page read.
func PushFlash(c *gin.Context, msg flash.Message) {
	msgs := append(pending(c), msg)
	value, err := flash.Encode(msgs)
	if err != nil {
		return
	}
	c.Set(FlashCookie, msgs)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, value, 0, "/", "", false, true)
}

// PopFlashes returns the queued messages and clears them.
func PopFlashes(c *gin.Context) []flash.Message {
	msgs := pending(c)
	c.Set(FlashCookie, []flash.Message(nil))
	c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	if msgs == nil {
		return []flash.Message{}
	}
	return msgs
}

// pending prefers messages queued during this request over the incoming cookie.
func pending(c *gin.Context) []flash.Message {
	if v, ok := c.Get(FlashCookie); ok {
		msgs, _ := v.([]flash.Message)
		return msgs
	}
	value, err := c.Cookie(FlashCookie)
	if err != nil {
		return nil
	}
	return flash.Decode(value)
}

// NoOutcome is passed to Apply when only an error is to be rendered.
var NoOutcome flash.Outcome

// Redirect queues the outcome's flash and sends a 302 to its target.
func Redirect(c *gin.Context, out flash.Outcome) {
	if out.Message.Text != "" {
		PushFlash(c, out.Message)
	}
	c.Redirect(http.StatusFound, out.Redirect)
}

// RedirectToLogin sends an unauthenticated caller to the login page, keeping
// the requested path in ?next=.
func RedirectToLogin(c *gin.Context) {
	PushFlash(c, flash.Message{Category: flash.Warning, Text: "Veuillez vous connecter pour accéder à cette page."})
	target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// Apply writes the result of a mutating service call. User-facing failures
// (validation, conflict) come back with an outcome and are rendered like a
// success. A missing record is a 404, a malformed lookup a 400, and anything
// unexpected a 500.
func Apply(c *gin.Context, out flash.Outcome, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		RedirectToLogin(c)
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, apperr.Message(err, "not found"))
	case errors.Is(err, apperr.ErrInvalidRequest):
		BadRequest(c, apperr.Message(err, "invalid request"))
	case !out.IsZero():
		Redirect(c, out)
	case err != nil:
		_ = c.Error(err)
		Internal(c, "internal error")
	default:
		c.AbortWithStatus(http.StatusNoContent)
	}
}
