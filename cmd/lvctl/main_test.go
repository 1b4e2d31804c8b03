package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalvibes/practice-api/pkg/client"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	user := client.User{ID: "u-1", Email: "ada@x.com", FirstName: "Ada", LastName: "Lovelace", JobTitle: "Senior Partner"}
	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer t1"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data":    client.AuthResult{Token: "t1", ExpiresAt: time.Now().Add(time.Hour), User: &user},
		})
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": user})
	})
	mux.HandleFunc("/client", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, []client.ClientRecord{{ID: "c-1", Name: "Acme Corp", Email: "legal@acme.test"}})
	})
	mux.HandleFunc("/project", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		projects := []client.Project{}
		if r.URL.Query().Get("search") == "rocket" {
			projects = append(projects, client.Project{ID: "p-1", Name: "Rocket mark", Type: "trademark", Status: "in_progress"})
		}
		writeJSON(w, http.StatusOK, projects)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func lvctl(t *testing.T, srv *httptest.Server, sessionFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--server", srv.URL, "--session-file", sessionFile}, args...)
	err := run(context.Background(), full, &out, io.Discard)
	return out.String(), err
}

func TestLvctl_SessionSurvivesBetweenRuns(t *testing.T) {
	srv := newServer(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := lvctl(t, srv, sessionFile, "clients")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	out, err := lvctl(t, srv, sessionFile, "login", "--email", "ada@x.com", "--password", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, "logged in as ada@x.com\n", out)

	out, err = lvctl(t, srv, sessionFile, "clients")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme Corp")

	out, err = lvctl(t, srv, sessionFile, "projects", "--search", "rocket")
	require.NoError(t, err)
	assert.Contains(t, out, "Rocket mark")
	assert.Contains(t, out, "in_progress")

	out, err = lvctl(t, srv, sessionFile, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Regexp(t, `Role\s+admin`, out)

	_, err = lvctl(t, srv, sessionFile, "logout")
	require.NoError(t, err)
	_, err = lvctl(t, srv, sessionFile, "whoami")
	require.Error(t, err)
}

func TestLvctl_UnknownCommandAndMissingPassword(t *testing.T) {
	srv := newServer(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := lvctl(t, srv, sessionFile, "frobnicate")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown command"))

	t.Setenv("LV_PASSWORD", "")
	_, err = lvctl(t, srv, sessionFile, "login", "--email", "ada@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
