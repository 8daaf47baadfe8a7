package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/middleware"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/service"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
	"github.com/noah-isme/training-hours-api/pkg/response"
)

type dashboardService interface {
	Get(ctx context.Context, pr models.Principal, req service.DashboardRequest) (*dto.DashboardResponse, error)
}

// DashboardHandler serves the monthly dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get godoc
// @Summary Monthly dashboard
// @Description Hours against quota for the principal or, for management, a filtered group
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month 1-12, defaults to current"
// @Param year query int false "Year, defaults to current"
// @Param department query string false "Department (Admin and board only)"
// @Param employees query []string false "Employees (management only)"
// @Param status query string false "all, rated or pending"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	pr, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := queryInt(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Get(c.Request.Context(), pr, service.DashboardRequest{
		Month:      month,
		Year:       year,
		Department: c.Query("department"),
		Employees:  queryList(c, "employees"),
		Status:     c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, middleware.ExtractMeta(c))
}
