package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error)
	refreshFn  func(ctx context.Context, token string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
	return s.updateFn(ctx, userID, patch)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, token)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "a@x.com" || in.FirstName != "Ada" || in.JobTitle != "Associate" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				Token:     "tok",
				ExpiresAt: time.Now().Add(time.Hour),
				User:      &domain.User{ID: "u-1", Email: in.Email, PasswordHash: "secret-hash"},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"Str0ng!Pass","firstName":"Ada","lastName":"Lovelace","phoneNumber":"5551234567","jobTitle":"Associate"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["token"] != "tok" {
		t.Fatalf("unexpected data: %+v", resp["data"])
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.Conflict("A user with this email already exists")
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"email":"a@x.com"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["success"] != false || resp["error"] != "A user with this email already exists" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"email":`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"nope"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp["error"] != "Invalid email or password" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestAuthHandler_Login_UnexpectedErrorDelegates(t *testing.T) {
	boom := errors.New("mongo down")
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, boom
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"x"}`)
	if err := h.Login(c); !errors.Is(err, boom) {
		t.Fatalf("expected raw error for the central handler, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile_Forbidden(t *testing.T) {
	stub := &stubAuthService{
		updateFn: func(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
			if userID != "u-1" || patch.JobTitle == nil || *patch.JobTitle != "Partner" {
				t.Fatalf("unexpected call: %s %+v", userID, patch)
			}
			if patch.FirstName != nil {
				t.Fatalf("absent fields must stay nil")
			}
			return nil, domain.Forbidden("Job title cannot be changed through profile updates.")
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/auth/profile", `{"jobTitle":"Partner"}`)
	c.Set(CtxUserID, "u-1")
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); !strings.Contains(resp["error"].(string), "Job title") {
		t.Fatalf("expected policy message, got %+v", resp)
	}
}

func TestAuthHandler_Profile_RequiresClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newJSONContext(http.MethodGet, "/auth/profile", "")

	err := h.Profile(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_ValidateToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := newJSONContext(http.MethodPost, "/auth/validate-token", "")
	c.Set(CtxClaims, &domain.TokenClaims{UserID: "u-1", Email: "a@x.com"})

	if err := h.ValidateToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp["data"].(map[string]any)
	if rec.Code != http.StatusOK || resp["message"] != "Token is valid" || data["userId"] != "u-1" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	var got string
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, token string) (*ports.AuthResult, error) {
			got = token
			if token == "expired" {
				return &ports.AuthResult{Token: "fresh", User: &domain.User{ID: "u-1"}}, nil
			}
			return nil, domain.Unauthorized("User not found or inactive")
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/refresh-token", "")
	c.Request().Header.Set("Authorization", "Bearer expired")
	if err := h.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "expired" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected refresh: token=%q code=%d", got, rec.Code)
	}

	c, rec = newJSONContext(http.MethodPost, "/auth/refresh-token", "")
	c.Request().Header.Set("Authorization", "Bearer gone")
	if err := h.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	c, rec = newJSONContext(http.MethodPost, "/auth/refresh-token", "")
	if err := h.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", rec.Code)
	}
}
