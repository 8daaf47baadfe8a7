package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/middleware"
	"github.com/noah-isme/training-hours-api/internal/models"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

func principalFromContext(c *gin.Context) (models.Principal, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return models.Principal{}, false
	}
	return user.Principal(), true
}

func parsePosition(c *gin.Context) (int, error) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "position must be a non-negative integer")
	}
	return position, nil
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be an integer")
	}
	return v, nil
}

// queryList accepts repeated parameters and comma separated values.
func queryList(c *gin.Context, key string) []string {
	out := make([]string, 0)
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
