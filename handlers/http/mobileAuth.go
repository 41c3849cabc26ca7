package httpHandler

import (
	"net/http"

	"lifeops-server/apperr"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

type MobileAuthHandler struct {
	useCase *usecases.AuthUseCase
}

func NewMobileAuthHandler(useCase *usecases.AuthUseCase) *MobileAuthHandler {
	return &MobileAuthHandler{
		useCase: useCase,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Login handles POST /api/mobile/auth/login
func (h *MobileAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	pair, err := h.useCase.IssueTokens(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Register handles POST /api/mobile/auth/register. A taken email is a plain
// 400 here.
func (h *MobileAuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if apperr.Is(err, apperr.KindConflict) {
		err = apperr.Validation(apperr.Message(err))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	pair, err := h.useCase.IssueTokens(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh handles POST /api/mobile/auth/refresh
func (h *MobileAuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	_, pair, err := h.useCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pair)
}

// Me handles GET /api/mobile/auth/me
func (h *MobileAuthHandler) Me(c *gin.Context) {
	respondOK(c, gin.H{"user": CurrentUser(c)})
}
