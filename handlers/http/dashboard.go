package httpHandler

import (
	"lifeops-server/apperr"
	"lifeops-server/usecases"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the browser's overview and the Pro analytics page.
type DashboardHandler struct {
	tasks      *usecases.TaskUseCase
	households *usecases.HouseholdUseCase
	analytics  *usecases.AnalyticsUseCase
}

func NewDashboardHandler(tasks *usecases.TaskUseCase, households *usecases.HouseholdUseCase, analytics *usecases.AnalyticsUseCase) *DashboardHandler {
	return &DashboardHandler{
		tasks:      tasks,
		households: households,
		analytics:  analytics,
	}
}

// GetDashboard handles GET /api/web/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentUser(c)

	tasks, err := h.tasks.List(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	household, err := h.households.Get(ctx, user)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"user":      user,
		"tasks":     tasks,
		"household": household,
	})
}

// GetAnalytics handles GET /api/web/analytics
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	report, err := h.analytics.Report(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}
