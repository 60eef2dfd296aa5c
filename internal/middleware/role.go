package middleware

import (
	domainUser "company-data-manager/internal/domain/user"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware lets the request through only for the given roles. It must
// run after AuthMiddleware.
func RoleMiddleware(allowedRoles ...domainUser.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			unauthenticated(c, "Authentication required")
			return
		}

		for _, allowed := range allowedRoles {
			if actor.Role == allowed {
				c.Next()
				return
			}
		}

		utils.CodedErrorResponse(c, http.StatusForbidden, appErrors.CodeUnauthorized, "", "Insufficient permissions")
		c.Abort()
	}
}

func ManagerOnly() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleManager)
}

func StaffOnly() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleManager, domainUser.RoleEmployee)
}

func ClientOnly() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleClient)
}
