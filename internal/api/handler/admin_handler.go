package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// AdminHandler exposes the privileged identity operations. Routes are mounted
// behind RequireAdmin.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type roleRequest struct {
	JobTitle    *string `json:"jobTitle,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
}

// ListUsers handles GET /admin/users.
//
// @Summary      List all identities
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// SetRole handles PUT /admin/users/:id/role.
//
// @Summary      Change an identity's job title or company
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User id"
// @Param        body  body      roleRequest  true  "New job title and/or company"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	actorID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req roleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.service.SetRole(c.Request().Context(), actorID, c.Param("id"), req.JobTitle, req.CompanyName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Deactivate handles DELETE /admin/users/:id.
//
// @Summary      Deactivate an identity
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) Deactivate(c echo.Context) error {
	actorID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Deactivate(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
