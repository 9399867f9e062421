package handler

import (
	"net/http"
	"time"

	"github.com/Rrens/support-chat/internal/analytics"
	"github.com/Rrens/support-chat/internal/api/response"
	"github.com/Rrens/support-chat/internal/service"
)

type DashboardHandler struct {
	analyticsService *service.AnalyticsService
	sessionService   *service.SessionService
	location         *time.Location
}

func NewDashboardHandler(analyticsService *service.AnalyticsService, sessionService *service.SessionService, location *time.Location) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
		sessionService:   sessionService,
		location:         location,
	}
}

// Stats returns the dashboard metrics. Only a malformed filter is an error;
// unavailable data yields zeroed metrics with 200.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := analytics.ParseFilter(q.Get("dateFrom"), q.Get("dateTo"), q.Get("withMicroInteractions"), h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, h.analyticsService.Compute(r.Context(), filter))
}

// ClearData deletes every stored session and its rows
func (h *DashboardHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.ClearAll(r.Context()); err != nil {
		response.FromError(w, err, "failed to clear data")
		return
	}

	response.OK(w, map[string]string{"message": "all data cleared"})
}
