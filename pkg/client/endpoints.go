package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Register creates an identity. The returned token becomes the session token.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", in)
}

// Login authenticates and adopts the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	var res AuthResult
	if _, err := c.do(ctx, request{method: http.MethodPost, path: path, body: body, envelope: true}, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/profile", auth: true, envelope: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfileUpdate) (*User, error) {
	var u User
	if _, err := c.do(ctx, request{method: http.MethodPut, path: "/auth/profile", body: patch, auth: true, envelope: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	var info TokenInfo
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/validate-token", auth: true, envelope: true}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// --- Clients ---

func (c *Client) ListClients(ctx context.Context) ([]ClientRecord, error) {
	var out []ClientRecord
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/client", auth: true}, &out)
	return out, err
}

func (c *Client) GetClient(ctx context.Context, id string) (*ClientRecord, error) {
	var out ClientRecord
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/client/" + url.PathEscape(id), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient creates a client. A non-empty idempotencyKey makes retries
// safe; replayed reports that the server returned the original entity.
func (c *Client) CreateClient(ctx context.Context, in ClientInput, idempotencyKey string) (out *ClientRecord, replayed bool, err error) {
	var rec ClientRecord
	status, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/client",
		body:   in,
		header: idempotencyHeader(idempotencyKey),
		auth:   true,
	}, &rec)
	if err != nil {
		return nil, false, err
	}
	return &rec, status == http.StatusOK, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, in ClientInput) (*ClientRecord, error) {
	var out ClientRecord
	if _, err := c.do(ctx, request{method: http.MethodPut, path: "/client/" + url.PathEscape(id), body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: "/client/" + url.PathEscape(id), auth: true}, nil)
	return err
}

// --- Projects ---

func (c *Client) ListProjects(ctx context.Context, search string) ([]Project, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	var out []Project
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/project", query: q, auth: true}, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var out Project
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/project/" + url.PathEscape(id), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput, idempotencyKey string) (out *Project, replayed bool, err error) {
	var p Project
	status, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/project",
		body:   in,
		header: idempotencyHeader(idempotencyKey),
		auth:   true,
	}, &p)
	if err != nil {
		return nil, false, err
	}
	return &p, status == http.StatusOK, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectInput) (*Project, error) {
	var out Project
	if _, err := c.do(ctx, request{method: http.MethodPut, path: "/project/" + url.PathEscape(id), body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProjectStatus(ctx context.Context, id, status string) (*Project, error) {
	var out Project
	if _, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/project/" + url.PathEscape(id) + "/status",
		body:   map[string]string{"status": status},
		auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: "/project/" + url.PathEscape(id), auth: true}, nil)
	return err
}

// --- Documents ---

func (c *Client) ListDocuments(ctx context.Context, projectID string) ([]Document, error) {
	var q url.Values
	if projectID != "" {
		q = url.Values{"projectId": {projectID}}
	}
	var out []Document
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/document", query: q, auth: true}, &out)
	return out, err
}

func (c *Client) CreateDocument(ctx context.Context, in DocumentInput) (*Document, error) {
	var out Document
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/document", body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: "/document/" + url.PathEscape(id), auth: true}, nil)
	return err
}

// --- Activity ---

// Activity returns the caller's recent activity; limit <= 0 uses the server default.
func (c *Client) Activity(ctx context.Context, limit int) ([]Activity, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out []Activity
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/activity", query: q, auth: true}, &out)
	return out, err
}

// --- Administration ---

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users", auth: true}, &out)
	return out, err
}

// SetRole changes another identity's job title and/or company.
func (c *Client) SetRole(ctx context.Context, userID string, jobTitle, companyName *string) (*User, error) {
	var out User
	if _, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/admin/users/" + url.PathEscape(userID) + "/role",
		body:   ProfileUpdate{JobTitle: jobTitle, CompanyName: companyName},
		auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeactivateUser(ctx context.Context, userID string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: "/admin/users/" + url.PathEscape(userID), auth: true}, nil)
	return err
}

func idempotencyHeader(key string) http.Header {
	if key == "" {
		return nil
	}
	return http.Header{"Idempotency-Key": {key}}
}
