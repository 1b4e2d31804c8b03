package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Recent handles GET /activity.
//
// @Summary      The caller's recent activity
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 50, max 200)"
// @Success      200    {array}   domain.Activity
// @Failure      400    {object}  map[string]string
// @Router       /activity [get]
func (h *ActivityHandler) Recent(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return domain.Validation("limit must be a non-negative integer")
		}
	}

	entries, err := h.service.Recent(c.Request().Context(), ownerID, limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.Activity{}
	}
	return c.JSON(http.StatusOK, entries)
}
