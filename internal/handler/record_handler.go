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

type recordService interface {
	List(ctx context.Context, pr models.Principal, filter service.RecordFilter) (*dto.RecordListResponse, error)
	Create(ctx context.Context, pr models.Principal, req models.CreateRecordRequest) (*dto.RecordRow, error)
	Update(ctx context.Context, pr models.Principal, position int, req models.UpdateRecordRequest) (*dto.RecordRow, error)
	Delete(ctx context.Context, pr models.Principal, position int, recordID string) error
}

// RecordHandler manages training records.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(svc recordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

// List godoc
// @Summary List training records
// @Description Records visible to the principal with per-row permissions
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month 1-12"
// @Param year query int false "Year"
// @Param department query string false "Department (Admin and board only)"
// @Param employees query []string false "Employees"
// @Param status query string false "all, rated or pending"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
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

	res, err := h.service.List(c.Request.Context(), pr, service.RecordFilter{
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
	middleware.SetMeta(c, "count", len(res.Records))
	response.JSON(c, http.StatusOK, res, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Register training
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateRecordRequest true "Training payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	pr, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid training payload"))
		return
	}
	row, err := h.service.Create(c.Request.Context(), pr, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, row)
}

// Update godoc
// @Summary Edit training
// @Description Owners and admins edit every field; evaluators may only set the leader rating
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param position path int true "Row position"
// @Param payload body models.UpdateRecordRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /records/{position} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	pr, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	position, err := parsePosition(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid training payload"))
		return
	}
	row, err := h.service.Update(c.Request.Context(), pr, position, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row)
}

// Delete godoc
// @Summary Delete training
// @Tags Records
// @Security BearerAuth
// @Param position path int true "Row position"
// @Param record_id query string false "Expected record id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /records/{position} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	pr, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	position, err := parsePosition(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.DeleteRecordRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delete request"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), pr, position, req.RecordID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
