package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

const actorKey = "actor"

// AuthMiddleware verifies the bearer token and stores the caller as a
// services.Actor on the context.
func AuthMiddleware(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			return
		}

		claims, err := tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set(actorKey, services.Actor{
			UserID:    claims.UserID,
			CompanyID: claims.CompanyID,
			Role:      models.Role(claims.Role),
		})
		c.Next()
	}
}

// CurrentActor returns the caller set by AuthMiddleware, or the zero Actor.
func CurrentActor(c *gin.Context) services.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Actor{}
}
