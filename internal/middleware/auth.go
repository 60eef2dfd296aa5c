package middleware

import (
	"company-data-manager/internal/config"
	domainUser "company-data-manager/internal/domain/user"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware turns a bearer token into the request's Actor.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthenticated(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthenticated(c, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(parts[1]), cfg.JWT.Secret)
		if err != nil {
			unauthenticated(c, "Invalid or expired token")
			return
		}

		role := domainUser.Role(claims.Role)
		if !role.Valid() || claims.UserID == 0 {
			unauthenticated(c, "Invalid or expired token")
			return
		}

		c.Set(actorKey, domainUser.Actor{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   role,
		})
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// ActorFrom returns the caller set by AuthMiddleware.
func ActorFrom(c *gin.Context) (domainUser.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return domainUser.Actor{}, false
	}
	actor, ok := value.(domainUser.Actor)
	return actor, ok
}

func unauthenticated(c *gin.Context, message string) {
	utils.CodedErrorResponse(c, http.StatusUnauthorized, appErrors.CodeUnauthorized, "", message)
	c.Abort()
}
