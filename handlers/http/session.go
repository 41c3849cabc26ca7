package httpHandler

import (
	"net/http"
	"time"

	"lifeops-server/auth"
	"lifeops-server/entities"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

// SessionHandler signs browser clients in and out with a session cookie.
type SessionHandler struct {
	useCase      *usecases.AuthUseCase
	secureCookie bool
	now          func() time.Time
}

func NewSessionHandler(useCase *usecases.AuthUseCase, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		useCase:      useCase,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// WithClock sets the time source used for cookie lifetimes. It must match
// the one the sessions are stamped with.
func (h *SessionHandler) WithClock(now func() time.Time) *SessionHandler {
	h.now = now
	return h
}

func (h *SessionHandler) setCookie(c *gin.Context, value string, expires time.Time) {
	maxAge := -1
	if !expires.IsZero() {
		maxAge = int(expires.Sub(h.now()).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}

func (h *SessionHandler) start(c *gin.Context, user *entities.User, status int) {
	token, expires, err := h.useCase.StartSession(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, token, expires)
	c.JSON(status, gin.H{"user": user})
}

// Register handles POST /api/web/session/register
func (h *SessionHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.useCase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.start(c, user, http.StatusCreated)
}

// Login handles POST /api/web/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.start(c, user, http.StatusOK)
}

// Logout handles POST /api/web/session/logout. It succeeds without a cookie.
func (h *SessionHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(auth.SessionCookie)
	if err := h.useCase.EndSession(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, "", time.Time{})
	respondOK(c, gin.H{"message": "Logged out"})
}
