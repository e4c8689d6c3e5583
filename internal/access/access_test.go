package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyhub/internal/model"
)

func TestChecker(t *testing.T) {
	tests := []struct {
		name   string
		admins []string
		email  string
		role   model.Role
		want   bool
	}{
		{name: "admin role", email: "a@example.com", role: model.RoleAdmin, want: true},
		{name: "allow-listed email", admins: []string{" Ops@Example.com "}, email: "ops@example.COM", role: model.RoleTeacher, want: true},
		{name: "regular user", admins: []string{"ops@example.com"}, email: "eleve@example.com", role: model.RoleStudent},
		{name: "empty allow-list", email: "", role: model.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.admins)
			assert.Equal(t, Unchecked, c.State())
			assert.Equal(t, tt.want, c.Check("u1", tt.email, tt.role))
			if tt.want {
				assert.Equal(t, CheckedAdmin, c.State())
			} else {
				assert.Equal(t, CheckedNonAdmin, c.State())
			}
		})
	}
}

func TestChecker_DecidesOncePerUser(t *testing.T) {
	c := NewChecker(nil)
	assert.False(t, c.Check("u1", "e@x", model.RoleStudent))
	// a later role change for the same user is not picked up until Reset
	assert.False(t, c.Check("u1", "e@x", model.RoleAdmin))

	assert.True(t, c.Check("u2", "f@x", model.RoleAdmin), "another user is evaluated afresh")

	c.Reset()
	assert.Equal(t, Unchecked, c.State())
	assert.Equal(t, "unchecked", c.State().String())
	assert.True(t, c.Check("u1", "e@x", model.RoleAdmin))
	assert.Equal(t, "checked-admin", c.State().String())
}
