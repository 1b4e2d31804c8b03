package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// envelope wraps every auth endpoint response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	JobTitle    *string `json:"jobTitle,omitempty"`
}

type tokenInfo struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates a new identity and returns its first session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  envelope{data=ports.AuthResult}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: "invalid payload"})
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, envelope{Success: true, Message: "User registered successfully", Data: res})
}

// Login authenticates an identity and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope{data=ports.AuthResult}
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: "invalid payload"})
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Login successful", Data: res})
}

// Profile returns the authenticated identity.
//
// @Summary      Get current profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.User}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  envelope
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Data: user})
}

// UpdateProfile applies a self-service profile change. Job title and company
// are rejected with 403 when they differ from the stored values.
//
// @Summary      Update current profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields to change"
// @Success      200   {object}  envelope{data=domain.User}
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: "invalid payload"})
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, ports.ProfilePatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Profile updated successfully", Data: user})
}

// ValidateToken reports the identity behind a still-valid bearer token.
//
// @Summary      Validate the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=tokenInfo}
// @Failure      401  {object}  map[string]string
// @Router       /auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Token is valid",
		Data:    tokenInfo{UserID: claims.UserID, Email: claims.Email, ExpiresAt: claims.ExpiresAt},
	})
}

// RefreshToken exchanges a signed token, expired or not, for a new one built
// from the identity's current stored state.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=ports.AuthResult}
// @Failure      401  {object}  envelope
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	raw, err := BearerToken(c.Request())
	if err != nil {
		return fail(c, domain.Unauthorized("%s", "Invalid token"))
	}

	res, err := h.authService.Refresh(c.Request().Context(), raw)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Token refreshed successfully", Data: res})
}

// fail renders a classified error inside the auth envelope. Unclassified
// errors go to the central error handler.
func fail(c echo.Context, err error) error {
	code, ok := StatusCode(err)
	if !ok {
		return err
	}
	return c.JSON(code, envelope{Error: domain.Message(err)})
}
