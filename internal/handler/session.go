package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/namesmith/internal/ui"
)

// SessionCookie carries the id of the caller's studio session.
const SessionCookie = "namesmith_session"

// currentState returns the caller's session state, if the cookie names a live one.
func currentState(c *gin.Context, sessions *ui.SessionStore) (*ui.State, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		return nil, false
	}
	return sessions.Get(id)
}

// ensureState returns the caller's session state, starting a new session
// (and setting the cookie) when there is none or it has been evicted.
func ensureState(c *gin.Context, sessions *ui.SessionStore) *ui.State {
	if state, ok := currentState(c, sessions); ok {
		return state
	}

	id, state := sessions.Create()
	// MaxAge 0 makes it a browser-session cookie; the server-side TTL decides
	// how long the state actually lives.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	return state
}
