package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// ClientHandler serves the owner-scoped client endpoints. Bodies are the raw
// entity or array.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type clientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (r clientRequest) input() ports.ClientInput {
	return ports.ClientInput{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		CompanyName: r.CompanyName,
		Address:     r.Address,
	}
}

// List handles GET /client.
//
// @Summary      List the caller's active clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      401  {object}  map[string]string
// @Router       /client [get]
func (h *ClientHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	clients, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []*domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

// Get handles GET /client/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  map[string]string
// @Router       /client/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	client, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Create handles POST /client.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      clientRequest  true   "Client details"
// @Success      201              {object}  domain.Client
// @Success      200              {object}  domain.Client  "Replayed idempotent request"
// @Failure      400              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /client [post]
func (h *ClientHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	client, replayed, err := h.service.Create(c.Request().Context(), ownerID, req.input(), idempotencyKey(c))
	if err != nil {
		return err
	}
	return c.JSON(createdStatus(replayed), client)
}

// Update handles PUT /client/:id. Empty fields keep their stored value.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /client/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	client, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /client/:id.
//
// @Summary      Deactivate a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "Client id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /client/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func idempotencyKey(c echo.Context) string {
	return c.Request().Header.Get("Idempotency-Key")
}

// createdStatus is 200 for a replayed idempotent create and 201 otherwise.
func createdStatus(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}
