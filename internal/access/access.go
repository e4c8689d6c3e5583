// Package access decides whether the signed-in user may open the admin area.
package access

import (
	"strings"
	"sync"

	"studyhub/internal/model"
)

type State int

const (
	Unchecked State = iota
	CheckedAdmin
	CheckedNonAdmin
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case CheckedAdmin:
		return "checked-admin"
	case CheckedNonAdmin:
		return "checked-non-admin"
	}
	return "unknown"
}

// Checker evaluates admin access once per identity and remembers the answer
// until Reset.
type Checker struct {
	admins map[string]struct{}

	mu     sync.Mutex
	state  State
	userID string
}

// NewChecker takes the allow-listed admin emails; matching ignores case.
func NewChecker(adminEmails []string) *Checker {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalize(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Checker{admins: admins}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check returns whether userID is an admin. The first call for a user decides;
// later calls for the same user return the remembered state. A different user
// is evaluated afresh.
func (c *Checker) Check(userID, email string, role model.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Unchecked && c.userID == userID {
		return c.state == CheckedAdmin
	}

	_, listed := c.admins[normalize(email)]
	c.userID = userID
	if role == model.RoleAdmin || listed {
		c.state = CheckedAdmin
	} else {
		c.state = CheckedNonAdmin
	}
	return c.state == CheckedAdmin
}

func (c *Checker) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset forgets the decision, e.g. on sign-out.
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Unchecked
	c.userID = ""
}
