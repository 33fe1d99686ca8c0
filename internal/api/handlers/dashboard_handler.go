package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greendrake/realty/internal/services"
)

// propertyTypes populates the type filter.
var propertyTypes = []string{"apartment", "house", "duplex", "land", "commercial"}

// DashboardHandler renders the client dashboard.
type DashboardHandler struct {
	dashboardService services.IDashboardService
}

func NewDashboardHandler(dashboardService services.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// ShowHome handles GET /
func (h *DashboardHandler) ShowHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "Welcome",
		"Flash": popFlash(c),
	})
}

// ShowDashboard handles GET /dashboard
func (h *DashboardHandler) ShowDashboard(c *gin.Context) {
	var filter services.DashboardFilter
	// Query binding of plain strings cannot fail in practice.
	_ = c.ShouldBindQuery(&filter)

	properties, err := h.dashboardService.ListProperties(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		log.Error().Err(err).Msg("failed to load dashboard")
		redirectWithFlash(c, "/", FlashError, "Unable to load properties right now. Please try again.")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":      "Dashboard",
		"Flash":      popFlash(c),
		"Filter":     filter,
		"Types":      propertyTypes,
		"Properties": properties,
	})
}
