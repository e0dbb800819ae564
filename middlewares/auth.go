package middlewares

import (
	"strings"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token into a Principal and, when
// roles are given, enforces the allow-list. Unapproved restaurants may
// authenticate but not manage orders, so that check lives here, not in the
// order subsystem.
func AuthMiddleware(identity *services.IdentityService, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		p, err := identity.Resolve(tokenStr)
		if err != nil {
			resp.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		utils.SetPrincipal(c, p)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if p.RoleName == r {
					allowed = true
					break
				}
			}
			if !allowed {
				resp.Forbidden(c, "forbidden")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// RequireApprovedRestaurant gates order management for restaurant
// principals that have not been approved yet. Other kinds pass through.
func RequireApprovedRestaurant(identity *services.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := utils.CurrentPrincipal(c)
		if ok && p.RoleName == "restaurant" {
			r, err := identity.Dir.FindRestaurantByID(p.ID)
			if err != nil || !r.Approved {
				resp.Forbidden(c, "restaurant is not approved")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
