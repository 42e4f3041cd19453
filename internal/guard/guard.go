// Package guard gates access to protected areas based on live session
// state. A guard never keeps its own copy of the session; every Evaluate
// reads the store, so a logout mid-page flips the next evaluation.
package guard

import (
	"movierealm/internal/models"
	"movierealm/internal/session"
)

type Decision int

const (
	// Loading: the session store has not finished restoring. Render a
	// neutral placeholder, no content, no redirect.
	Loading Decision = iota
	// RedirectToLogin: no session; guarded content must never mount.
	RedirectToLogin
	// Denied: authenticated but the role is insufficient. Shown as an
	// explicit denied view, not a silent redirect.
	Denied
	// Allow: render the guarded content.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case RedirectToLogin:
		return "redirect_to_login"
	case Denied:
		return "denied"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// SessionSource is the live state a guard reads through.
type SessionSource interface {
	Restored() bool
	Current() *session.Session
}

type Guard struct {
	sessions SessionSource
	// require is the role the guarded area demands; "" means any
	// authenticated user.
	require models.Role
}

// New builds a guard for an area requiring the given role.
func New(sessions SessionSource, require models.Role) *Guard {
	return &Guard{sessions: sessions, require: require}
}

func (g *Guard) Evaluate() Decision {
	if !g.sessions.Restored() {
		return Loading
	}
	current := g.sessions.Current()
	if current == nil {
		return RedirectToLogin
	}
	if g.require != "" && current.Role() != g.require {
		return Denied
	}
	return Allow
}
