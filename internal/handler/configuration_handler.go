package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/pkg/response"
)

type optionsProvider interface {
	Options() dto.OptionsResponse
}

// ConfigurationHandler exposes form pick lists.
type ConfigurationHandler struct {
	service optionsProvider
}

// NewConfigurationHandler constructs a ConfigurationHandler.
func NewConfigurationHandler(svc optionsProvider) *ConfigurationHandler {
	return &ConfigurationHandler{service: svc}
}

// Options godoc
// @Summary Form options
// @Description Departments, leaders, ratings, months and roles offered by forms
// @Tags Configuration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /options [get]
func (h *ConfigurationHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Options())
}
