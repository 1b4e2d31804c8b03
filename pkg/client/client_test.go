package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// refreshServer rejects "old" on /client until both in-flight requests have
// arrived, and hands out "new" on refresh when refreshOK is set.
type refreshServer struct {
	refreshOK bool
	refreshes atomic.Int32
	arrived   sync.WaitGroup
	expired   chan struct{}
}

func newRefreshServer(t *testing.T, refreshOK bool, concurrent int) (*refreshServer, *httptest.Server) {
	t.Helper()
	s := &refreshServer{refreshOK: refreshOK, expired: make(chan struct{})}
	s.arrived.Add(concurrent)
	go func() {
		s.arrived.Wait()
		close(s.expired)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/client", func(w http.ResponseWriter, r *http.Request) {
		switch bearerOf(r) {
		case "old":
			s.arrived.Done()
			<-s.expired
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		case "new":
			writeJSON(w, http.StatusOK, []ClientRecord{{ID: "c-1", Name: "Acme"}})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		s.refreshes.Add(1)
		// Keep the flight open long enough for the second caller to join.
		time.Sleep(20 * time.Millisecond)
		if !s.refreshOK || bearerOf(r) != "old" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "User not found or inactive"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "new", "user": map[string]any{"id": "u-1", "jobTitle": "Partner"}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func TestClient_CoalescedRefresh_BothSucceed(t *testing.T) {
	s, srv := newRefreshServer(t, true, 2)

	var sessions atomic.Int32
	c := New(srv.URL, WithToken("old"))
	c.OnSessionChange(func(res *AuthResult) {
		sessions.Add(1)
		assert.Equal(t, "new", res.Token)
	}, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients, err := c.ListClients(context.Background())
			if err == nil && len(clients) != 1 {
				err = assert.AnError
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), s.refreshes.Load(), "exactly one refresh call")
	assert.Equal(t, int32(1), sessions.Load())
	assert.Equal(t, "new", c.Token())
}

func TestClient_CoalescedRefresh_BothFail(t *testing.T) {
	s, srv := newRefreshServer(t, false, 2)

	var expired atomic.Int32
	c := New(srv.URL, WithToken("old"))
	c.OnSessionChange(nil, func(error) { expired.Add(1) })

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.ListClients(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), s.refreshes.Load(), "exactly one refresh call")
	assert.Equal(t, int32(1), expired.Load())
	assert.Empty(t, c.Token())
}

func TestClient_ReplacedTokenRetriesWithoutRefresh(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/client", func(w http.ResponseWriter, r *http.Request) {
		if bearerOf(r) == "new" {
			writeJSON(w, http.StatusOK, []ClientRecord{{ID: "c-1"}})
			return
		}
		close(arrived)
		<-release
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, WithToken("old"))
	type result struct {
		clients []ClientRecord
		err     error
	}
	done := make(chan result, 1)
	go func() {
		clients, err := c.ListClients(context.Background())
		done <- result{clients, err}
	}()

	// Another caller replaced the token while this request was in flight.
	<-arrived
	c.SetToken("new")
	close(release)

	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.clients, 1)
	assert.Equal(t, int32(0), refreshes.Load())
}

func TestClient_ErrorKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid email or password"})
		case "/client/missing":
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Client not found"})
		case "/client":
			writeJSON(w, http.StatusConflict, map[string]string{"error": "A client with this email already exists"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()

	_, err := c.Login(ctx, "a@x.com", "nope")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", Message(err))

	_, err = c.GetClient(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = c.CreateClient(ctx, ClientInput{Name: "Acme"}, "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = c.ListProjects(ctx, "")
	require.ErrorIs(t, err, ErrServer)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Login(context.Background(), "a@x.com", "x")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestClient_LoginAdoptsTokenAndUnwrapsEnvelope(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Login successful",
				"data":    map[string]any{"token": "t-1", "user": map[string]any{"id": "u-1", "email": "a@x.com"}},
			})
		case "/project":
			gotKey = r.Header.Get("Idempotency-Key")
			assert.Equal(t, "t-1", bearerOf(r))
			writeJSON(w, http.StatusOK, Project{ID: "p-1", Name: "Mark"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), "a@x.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Equal(t, "t-1", c.Token())

	p, replayed, err := c.CreateProject(context.Background(), ProjectInput{Name: "Mark"}, "k-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "k-1", gotKey)
}

// gatedRefreshServer rejects "old" on /client, accepts "new" and "fresh",
// and holds every refresh until release is closed.
type gatedRefreshServer struct {
	refreshOK bool
	arrived   chan struct{}
	release   chan struct{}
}

func newGatedRefreshServer(t *testing.T, refreshOK bool) (*gatedRefreshServer, *httptest.Server) {
	t.Helper()
	s := &gatedRefreshServer{refreshOK: refreshOK, arrived: make(chan struct{}, 1), release: make(chan struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/client", func(w http.ResponseWriter, r *http.Request) {
		switch bearerOf(r) {
		case "new", "fresh":
			writeJSON(w, http.StatusOK, []ClientRecord{{ID: "c-1", Name: "Acme"}})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		s.arrived <- struct{}{}
		<-s.release
		if !s.refreshOK {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    AuthResult{Token: "new", ExpiresAt: time.Now().Add(time.Hour), User: &User{ID: "u-1"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func TestClient_LogoutDuringRefreshWins(t *testing.T) {
	gate, srv := newGatedRefreshServer(t, true)
	c := New(srv.URL, WithToken("old"))

	var sessions atomic.Int32
	c.OnSessionChange(func(*AuthResult) { sessions.Add(1) }, nil)

	errs := make(chan error, 1)
	go func() {
		_, err := c.ListClients(context.Background())
		errs <- err
	}()

	<-gate.arrived
	c.SetToken("")
	close(gate.release)

	err := <-errs
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.Token(), "refreshed token must not outlive the logout")
	assert.Zero(t, sessions.Load())
}

func TestClient_FailedRefreshKeepsNewerLogin(t *testing.T) {
	gate, srv := newGatedRefreshServer(t, false)
	c := New(srv.URL, WithToken("old"))

	var expired atomic.Int32
	c.OnSessionChange(nil, func(error) { expired.Add(1) })

	errs := make(chan error, 1)
	go func() {
		_, err := c.ListClients(context.Background())
		errs <- err
	}()

	<-gate.arrived
	c.SetToken("fresh")
	close(gate.release)

	// The rejected call retries with the session that replaced it.
	require.NoError(t, <-errs)
	assert.Equal(t, "fresh", c.Token())
	assert.Zero(t, expired.Load())
}
