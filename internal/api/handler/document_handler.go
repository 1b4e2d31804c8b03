package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// DocumentHandler serves document metadata. File contents are stored
// elsewhere and referenced by storagePath.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

type documentRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type,omitempty"`
	ContentType   string `json:"contentType,omitempty"`
	StoragePath   string `json:"storagePath,omitempty"`
	SizeInBytes   int64  `json:"sizeInBytes" validate:"gte=0"`
	ProjectID     string `json:"projectId" validate:"required"`
	IsAIGenerated bool   `json:"isAiGenerated"`
}

// List handles GET /document.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  query     string  false  "Restrict to one project"
// @Success      200        {array}   domain.Document
// @Failure      404        {object}  map[string]string
// @Router       /document [get]
func (h *DocumentHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	docs, err := h.service.ListByProject(c.Request().Context(), ownerID, c.QueryParam("projectId"))
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Create handles POST /document.
//
// @Summary      Register a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      documentRequest  true  "Document metadata"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /document [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req documentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doc, err := h.service.Create(c.Request().Context(), ownerID, ports.DocumentInput{
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		ContentType:   req.ContentType,
		StoragePath:   req.StoragePath,
		SizeInBytes:   req.SizeInBytes,
		ProjectID:     req.ProjectID,
		IsAIGenerated: req.IsAIGenerated,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Delete handles DELETE /document/:id.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        id   path  string  true  "Document id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /document/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
