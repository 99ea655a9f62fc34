package http

import (
	"net/http"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/dashboard"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetStats returns combined dashboard data
	GetStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetStats handles GET /dashboard
func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
