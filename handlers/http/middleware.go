package httpHandler

import (
	"lifeops-server/apperr"
	"lifeops-server/auth"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

// RequireUser authenticates the request with provider and loads the user row
// on every call, so plan changes apply immediately.
func RequireUser(provider auth.Provider, users *usecases.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := provider.Authenticate(c.Request)
		if err != nil {
			respondError(c, apperr.Unauthorized("unauthorized"))
			return
		}
		user, err := users.UserByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}
