package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/devcamper/internal/app/models"
)

func TestCanModify(t *testing.T) {
	owner := &models.User{ID: "u1", Role: models.RolePublisher}
	other := &models.User{ID: "u2", Role: models.RolePublisher}
	admin := &models.User{ID: "u3", Role: models.RoleAdmin}

	bootcamp := &models.Bootcamp{ID: "b1", UserID: "u1"}
	course := &models.Course{ID: "c1", UserID: "u1"}

	tests := []struct {
		name     string
		user     *models.User
		resource Owned
		want     bool
	}{
		{"owner of bootcamp", owner, bootcamp, true},
		{"owner of course", owner, course, true},
		{"other publisher", other, bootcamp, false},
		{"other publisher on course", other, course, false},
		{"admin", admin, course, true},
		{"anonymous", nil, bootcamp, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.user, tt.resource))
		})
	}
}
