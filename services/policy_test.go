package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/tablesession-api/models"
)

func TestAuthorizeTable(t *testing.T) {
	cases := []struct {
		op      Operation
		allowed []models.Role
	}{
		{OpTableCreate, []models.Role{models.RoleAdmin}},
		{OpMenuCreate, []models.Role{models.RoleAdmin}},
		{OpMenuList, []models.Role{models.RoleAdmin, models.RoleFrontdesk, models.RoleBackoffice}},
		{OpUserUpdateRole, []models.Role{models.RoleAdmin}},
		{OpSessionOpen, []models.Role{models.RoleAdmin, models.RoleFrontdesk}},
		{OpSessionClose, []models.Role{models.RoleAdmin, models.RoleFrontdesk}},
		{OpOrderAdd, []models.Role{models.RoleAdmin, models.RoleFrontdesk}},
		{OpSessionGet, []models.Role{models.RoleAdmin, models.RoleFrontdesk, models.RoleBackoffice}},
		{OpSessionListActive, []models.Role{models.RoleAdmin, models.RoleBackoffice}},
		{OpOrderUpdateStatus, []models.Role{models.RoleAdmin, models.RoleBackoffice}},
		{OpReportSummary, []models.Role{models.RoleAdmin}},
		{OpReportOrders, []models.Role{models.RoleAdmin}},
	}

	all := []models.Role{models.RoleAdmin, models.RoleFrontdesk, models.RoleBackoffice}
	for _, c := range cases {
		for _, role := range all {
			err := Authorize(role, c.op)
			if contains(c.allowed, role) {
				assert.NoError(t, err, "%s as %s", c.op, role)
			} else {
				assert.ErrorIs(t, err, ErrForbidden, "%s as %s", c.op, role)
			}
		}
	}
}

func TestAuthorizeUnknown(t *testing.T) {
	assert.ErrorIs(t, Authorize(models.RoleAdmin, "table.burn"), ErrForbidden)
	assert.ErrorIs(t, Authorize("chef", OpSessionGet), ErrForbidden)
	assert.ErrorIs(t, authorize(Actor{Role: models.RoleAdmin}, OpSessionGet), ErrUnauthorized)
}

func TestServiceErrorMatchesKind(t *testing.T) {
	err := conflict("table %d already has an open session", 5)

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "table 5 already has an open session", err.Error())
}

func contains(roles []models.Role, r models.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
