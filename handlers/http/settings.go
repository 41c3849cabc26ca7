package httpHandler

import (
	"lifeops-server/entities"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	useCase *usecases.SettingsUseCase
}

func NewSettingsHandler(useCase *usecases.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{
		useCase: useCase,
	}
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=FREE PRO"`
}

// GetSettings handles GET /api/web/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	respondOK(c, h.useCase.Get(CurrentUser(c)))
}

// UpdateProfile handles PATCH /api/web/settings/profile
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.useCase.UpdateProfile(c.Request.Context(), CurrentUser(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}

// ChangePassword handles POST /api/web/settings/password
func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.useCase.ChangePassword(c.Request.Context(), CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Password updated"})
}

// ChangePlan handles POST /api/web/settings/plan
func (h *SettingsHandler) ChangePlan(c *gin.Context) {
	var req ChangePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.useCase.ChangePlan(c.Request.Context(), CurrentUser(c), entities.Plan(req.Plan))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user})
}
