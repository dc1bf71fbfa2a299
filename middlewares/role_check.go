package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

// RequireOperation rejects callers whose role may not perform op. The
// services check again with the same table.
func RequireOperation(op services.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor.UserID == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		if err := services.Authorize(actor.Role, op); err != nil {
			utils.AbortWithError(c, http.StatusForbidden, err)
			return
		}
		c.Next()
	}
}
