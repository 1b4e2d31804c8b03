package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// ProjectHandler serves the owner-scoped project endpoints.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type projectRequest struct {
	Name                  string     `json:"name"`
	Description           string     `json:"description,omitempty"`
	Type                  string     `json:"type,omitempty"`
	Status                string     `json:"status,omitempty"`
	DueDate               *time.Time `json:"dueDate,omitempty"`
	ReferenceNumber       string     `json:"referenceNumber,omitempty"`
	ClientID              string     `json:"clientId"`
	TrademarkName         string     `json:"trademarkName,omitempty"`
	TrademarkDescription  string     `json:"trademarkDescription,omitempty"`
	GoodsAndServices      string     `json:"goodsAndServices,omitempty"`
	SpecialConsiderations string     `json:"specialConsiderations,omitempty"`
}

func (r projectRequest) input() ports.ProjectInput {
	return ports.ProjectInput{
		Name:                  r.Name,
		Description:           r.Description,
		Type:                  domain.ProjectType(r.Type),
		Status:                domain.ProjectStatus(r.Status),
		DueDate:               r.DueDate,
		ReferenceNumber:       r.ReferenceNumber,
		ClientID:              r.ClientID,
		TrademarkName:         r.TrademarkName,
		TrademarkDescription:  r.TrademarkDescription,
		GoodsAndServices:      r.GoodsAndServices,
		SpecialConsiderations: r.SpecialConsiderations,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List handles GET /project.
//
// @Summary      List the caller's projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on name, description, reference number or trademark name"
// @Success      200     {array}   domain.Project
// @Router       /project [get]
func (h *ProjectHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	projects, err := h.service.List(c.Request().Context(), ownerID, c.QueryParam("search"))
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

// Get handles GET /project/:id. The owning client is embedded.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.ProjectDetail
// @Failure      404  {object}  map[string]string
// @Router       /project/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles POST /project.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      projectRequest  true   "Project details"
// @Success      201              {object}  domain.Project
// @Success      200              {object}  domain.Project  "Replayed idempotent request"
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Router       /project [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	project, replayed, err := h.service.Create(c.Request().Context(), ownerID, req.input(), idempotencyKey(c))
	if err != nil {
		return err
	}
	return c.JSON(createdStatus(replayed), project)
}

// Update handles PUT /project/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project id"
// @Param        body  body      projectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /project/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	project, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateStatus handles PUT /project/:id/status.
//
// @Summary      Change a project's status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /project/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), ownerID, domain.ProjectStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /project/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /project/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
