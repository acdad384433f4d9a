package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
)

const (
	// TenantHeader is set by the upstream gateway for every ledger request.
	TenantHeader = "X-Tenant-ID"
	// TenantIDKey is the gin context key holding the request tenant id.
	TenantIDKey = "tenant_id"

	maxTenantIDLength = 64
)

// TenantMiddleware rejects requests without a tenant id and scopes the request
// logger to the tenant.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenantID == "" || len(tenantID) > maxTenantIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, web.Error(domain.ErrTenantRequired))
			return
		}

		ctx := c.Request.Context()
		l := zerolog.Ctx(ctx).With().Str("tenant_id", tenantID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(ctx))

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

// TenantID returns the tenant id stored by TenantMiddleware.
func TenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}
