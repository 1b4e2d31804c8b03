// Package guard decides what a navigation should render given the current
// session. Every function is pure.
package guard

import (
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/pkg/client/session"
)

const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"

	// NoJobTitle is shown on the access denied view for identities without one.
	NoJobTitle = "None"
)

type Kind int

const (
	Render Kind = iota
	Redirect
	Loading
	AccessDenied
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	case AccessDenied:
		return "access_denied"
	}
	return "unknown"
}

// Navigation is an attempted move to Path. From is the path the user was
// originally sent away from, if any.
type Navigation struct {
	Path string
	From string
}

// Decision is the outcome of a guard. Location is set for redirects; From
// records the intended path so login can return to it. JobTitle is the role
// evidence shown on an access denied view.
type Decision struct {
	Kind     Kind
	Location string
	From     string
	JobTitle string
}

// RequireAnonymous sends authenticated users away from pages such as login,
// back to where they were headed or to DefaultPath.
func RequireAnonymous(s session.State, nav Navigation) Decision {
	if s.Loading() {
		return Decision{Kind: Loading}
	}
	if !s.Authenticated() {
		return Decision{Kind: Render}
	}
	target := nav.From
	if target == "" || target == LoginPath {
		target = DefaultPath
	}
	return Decision{Kind: Redirect, Location: target}
}

// RequireAuthenticated sends anonymous users to login, remembering the path
// they asked for.
func RequireAuthenticated(s session.State, nav Navigation) Decision {
	if s.Loading() {
		return Decision{Kind: Loading}
	}
	if !s.Authenticated() {
		return Decision{Kind: Redirect, Location: LoginPath, From: nav.Path}
	}
	return Decision{Kind: Render}
}

// RequireAdmin behaves like RequireAuthenticated and then checks the role
// derived from the job title. Failing that check renders access denied in
// place rather than redirecting.
func RequireAdmin(s session.State, nav Navigation) Decision {
	d := RequireAuthenticated(s, nav)
	if d.Kind != Render {
		return d
	}
	if domain.IsAdmin(s.User.JobTitle) {
		return d
	}
	title := s.User.JobTitle
	if title == "" {
		title = NoJobTitle
	}
	return Decision{Kind: AccessDenied, JobTitle: title}
}
