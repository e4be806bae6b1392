package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labstock-backend/internal/model"
)

func TestCanReassign(t *testing.T) {
	lab1 := int64(1)
	lab2 := int64(2)
	inst := model.Instance{ID: 10, LabID: lab1}

	testCases := []struct {
		name    string
		actor   Actor
		allowed bool
	}{
		{
			name:    "global admin may reassign anywhere",
			actor:   Actor{ID: 1, Role: RoleAdmin},
			allowed: true,
		},
		{
			name:    "lab admin of the same lab may reassign",
			actor:   Actor{ID: 2, Role: RoleLabAdmin, LabID: &lab1},
			allowed: true,
		},
		{
			name:    "lab admin of another lab is forbidden",
			actor:   Actor{ID: 3, Role: RoleLabAdmin, LabID: &lab2},
			allowed: false,
		},
		{
			name:    "lab admin without a lab is forbidden",
			actor:   Actor{ID: 4, Role: RoleLabAdmin},
			allowed: false,
		},
		{
			name:    "regular user is forbidden even in the same lab",
			actor:   Actor{ID: 5, Role: RoleUser, LabID: &lab1},
			allowed: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanReassign(tc.actor, inst))
		})
	}
}
