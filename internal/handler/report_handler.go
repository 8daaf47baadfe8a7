package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/service"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
	"github.com/noah-isme/training-hours-api/pkg/response"
)

type reportService interface {
	Get(ctx context.Context, pr models.Principal, req service.ReportRequest) (*dto.ReportResponse, error)
	Export(ctx context.Context, pr models.Principal, req service.ReportRequest, format string) (*dto.ExportFile, error)
}

// ReportHandler serves the performance report and its downloads.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Get godoc
// @Summary Performance report
// @Description Team evolution series, filtered rows and the ranking or personal achievements
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department (Admin and board only)"
// @Param employee query string false "Employee (management and board)"
// @Param month query int false "Month 1-12"
// @Param year query int false "Year"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) Get(c *gin.Context) {
	pr, req, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), pr, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Export godoc
// @Summary Download report
// @Description Filtered report rows as xlsx, csv or pdf
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "xlsx (default), csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	pr, req, ok := h.bind(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), pr, req, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

func (h *ReportHandler) bind(c *gin.Context) (models.Principal, service.ReportRequest, bool) {
	pr, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Principal{}, service.ReportRequest{}, false
	}
	month, err := queryInt(c, "month")
	if err != nil {
		response.Error(c, err)
		return models.Principal{}, service.ReportRequest{}, false
	}
	year, err := queryInt(c, "year")
	if err != nil {
		response.Error(c, err)
		return models.Principal{}, service.ReportRequest{}, false
	}
	return pr, service.ReportRequest{
		Department: c.Query("department"),
		Employee:   c.Query("employee"),
		Month:      month,
		Year:       year,
	}, true
}
