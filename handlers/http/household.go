package httpHandler

import (
	"net/http"

	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

type HouseholdHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewHouseholdHandler(useCase *usecases.HouseholdUseCase) *HouseholdHandler {
	return &HouseholdHandler{
		useCase: useCase,
	}
}

type CreateHouseholdRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// GetHousehold handles GET /api/web/household
func (h *HouseholdHandler) GetHousehold(c *gin.Context) {
	view, err := h.useCase.Get(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// CreateHousehold handles POST /api/web/household
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	var req CreateHouseholdRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.useCase.Create(c.Request.Context(), CurrentUser(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Leave handles POST /api/web/household/leave
func (h *HouseholdHandler) Leave(c *gin.Context) {
	if err := h.useCase.Leave(c.Request.Context(), CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Left household"})
}

// RemoveMember handles DELETE /api/web/household/members/:userId
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	if err := h.useCase.RemoveMember(c.Request.Context(), CurrentUser(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Member removed"})
}

// CreateInvite handles POST /api/web/household/invites
func (h *HouseholdHandler) CreateInvite(c *gin.Context) {
	invite, err := h.useCase.CreateInvite(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"invite": invite,
		"path":   "/invites/" + invite.Token,
	})
}

// RevokeInvite handles DELETE /api/web/household/invites/:id
func (h *HouseholdHandler) RevokeInvite(c *gin.Context) {
	if err := h.useCase.RevokeInvite(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Invite revoked"})
}

// GetInvite handles GET /api/web/invites/:token. It needs no session so the
// link can be previewed before signing in.
func (h *HouseholdHandler) GetInvite(c *gin.Context) {
	info, err := h.useCase.InviteInfo(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, info)
}

// AcceptInvite handles POST /api/web/invites/:token/accept
func (h *HouseholdHandler) AcceptInvite(c *gin.Context) {
	member, err := h.useCase.Redeem(c.Request.Context(), CurrentUser(c), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"membership": member})
}
