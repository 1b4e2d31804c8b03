// Package session keeps the client-side authentication state. All changes
// go through Reduce, and the Store persists the result as a side effect.
package session

import "github.com/legalvibes/practice-api/pkg/client"

// Status is the position of a session in its lifecycle.
type Status string

const (
	StatusRestoring      Status = "restoring"
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusRefreshing     Status = "refreshing"
)

// State is an immutable snapshot of the session.
type State struct {
	Status Status
	Token  string
	User   *client.User
	Err    string
}

// Initial is the state before Init has run.
func Initial() State {
	return State{Status: StatusRestoring}
}

// Loading reports whether a transition is in flight.
func (s State) Loading() bool {
	switch s.Status {
	case StatusRestoring, StatusAuthenticating, StatusRefreshing:
		return true
	}
	return false
}

// Authenticated reports whether the session holds a usable identity.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != "" && s.User != nil
}

// Action is a tagged union of session events.
type Action interface {
	action()
}

type (
	// Restored carries a snapshot read back from storage.
	Restored struct {
		Token string
		User  *client.User
	}
	// RestoreEmpty means storage held no usable snapshot.
	RestoreEmpty struct{}
	// LoginStarted covers both login and registration.
	LoginStarted   struct{}
	LoginSucceeded struct {
		Token string
		User  *client.User
	}
	LoginFailed struct {
		Err string
	}
	RefreshStarted struct{}
	// RefreshSucceeded replaces the token. User is nil when the server result
	// did not carry one.
	RefreshSucceeded struct {
		Token string
		User  *client.User
	}
	RefreshFailed struct {
		Err string
	}
	Logout      struct{}
	ClearError  struct{}
	UserUpdated struct {
		User *client.User
	}
)

func (Restored) action()         {}
func (RestoreEmpty) action()     {}
func (LoginStarted) action()     {}
func (LoginSucceeded) action()   {}
func (LoginFailed) action()      {}
func (RefreshStarted) action()   {}
func (RefreshSucceeded) action() {}
func (RefreshFailed) action()    {}
func (Logout) action()           {}
func (ClearError) action()       {}
func (UserUpdated) action()      {}

// Reduce returns the state that follows s after a. It has no side effects.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Restored:
		if a.Token == "" || a.User == nil {
			return State{Status: StatusAnonymous}
		}
		return State{Status: StatusAuthenticated, Token: a.Token, User: a.User}
	case RestoreEmpty:
		return State{Status: StatusAnonymous}
	case LoginStarted:
		return State{Status: StatusAuthenticating, Token: s.Token, User: s.User}
	case LoginSucceeded:
		return State{Status: StatusAuthenticated, Token: a.Token, User: a.User}
	case LoginFailed:
		return State{Status: StatusAnonymous, Err: a.Err}
	case RefreshStarted:
		if s.Status != StatusAuthenticated {
			return s
		}
		s.Status = StatusRefreshing
		return s
	case RefreshSucceeded:
		if s.Status != StatusAuthenticated && s.Status != StatusRefreshing {
			return s
		}
		user := a.User
		if user == nil {
			user = s.User
		}
		return State{Status: StatusAuthenticated, Token: a.Token, User: user}
	case RefreshFailed:
		return State{Status: StatusAnonymous, Err: a.Err}
	case Logout:
		return State{Status: StatusAnonymous}
	case ClearError:
		s.Err = ""
		return s
	case UserUpdated:
		if s.User == nil || a.User == nil {
			return s
		}
		s.User = a.User
		return s
	}
	return s
}
