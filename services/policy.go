package services

import (
	"github.com/yeremiapane/tablesession-api/models"
)

type Operation string

const (
	OpTableCreate Operation = "table.create"
	OpTableUpdate Operation = "table.update"
	OpTableDelete Operation = "table.delete"
	OpTableList   Operation = "table.list"

	OpMenuCreate Operation = "menu.create"
	OpMenuUpdate Operation = "menu.update"
	OpMenuDelete Operation = "menu.delete"
	OpMenuList   Operation = "menu.list"

	OpUserList       Operation = "user.list"
	OpUserCreate     Operation = "user.create"
	OpUserUpdateRole Operation = "user.update_role"

	OpSessionOpen       Operation = "session.open"
	OpSessionClose      Operation = "session.close"
	OpSessionGet        Operation = "session.get"
	OpSessionListActive Operation = "session.list_active"

	OpOrderAdd          Operation = "order.add"
	OpOrderUpdateStatus Operation = "order.update_status"
	OpOrderHistory      Operation = "order.history"

	OpReportOrders  Operation = "report.orders"
	OpReportSummary Operation = "report.summary"
)

var (
	adminOnly       = []models.Role{models.RoleAdmin}
	frontdeskStaff  = []models.Role{models.RoleFrontdesk, models.RoleAdmin}
	backofficeStaff = []models.Role{models.RoleBackoffice, models.RoleAdmin}
	allStaff        = []models.Role{models.RoleAdmin, models.RoleFrontdesk, models.RoleBackoffice}
)

// operationRoles is the only place permissions are defined. Both the HTTP
// middleware and the services read it.
var operationRoles = map[Operation][]models.Role{
	OpTableCreate: adminOnly,
	OpTableUpdate: adminOnly,
	OpTableDelete: adminOnly,
	OpTableList:   adminOnly,

	OpMenuCreate: adminOnly,
	OpMenuUpdate: adminOnly,
	OpMenuDelete: adminOnly,
	OpMenuList:   allStaff,

	OpUserList:       adminOnly,
	OpUserCreate:     adminOnly,
	OpUserUpdateRole: adminOnly,

	OpSessionOpen:       frontdeskStaff,
	OpSessionClose:      frontdeskStaff,
	OpSessionGet:        allStaff,
	OpSessionListActive: backofficeStaff,

	OpOrderAdd:          frontdeskStaff,
	OpOrderUpdateStatus: backofficeStaff,
	OpOrderHistory:      allStaff,

	OpReportOrders:  adminOnly,
	OpReportSummary: adminOnly,
}

// Actor is the authenticated caller. Its CompanyID scopes every lookup.
type Actor struct {
	UserID    string
	CompanyID string
	Role      models.Role
}

// Authorize reports whether role may perform op. Unknown operations are denied.
func Authorize(role models.Role, op Operation) error {
	for _, r := range operationRoles[op] {
		if r == role {
			return nil
		}
	}
	return newError(ErrForbidden, "role %q is not allowed to perform %s", role, op)
}

func authorize(actor Actor, op Operation) error {
	if actor.UserID == "" || actor.CompanyID == "" {
		return newError(ErrUnauthorized, "authentication required")
	}
	return Authorize(actor.Role, op)
}
