package utils

import (
	"backend/entity"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

func SetPrincipal(c *gin.Context, p entity.Principal) {
	c.Set(principalKey, p)
}

func CurrentPrincipal(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}

// CurrentUserID returns the principal id when the caller is a customer,
// zero otherwise.
func CurrentUserID(c *gin.Context) uint {
	p, ok := CurrentPrincipal(c)
	if !ok || p.Kind != entity.PrincipalUser {
		return 0
	}
	return p.ID
}
