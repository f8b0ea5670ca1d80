package tenant

import (
	"context"
	"strings"

	"MaintLens/internal/config"
	"MaintLens/internal/middleware/jwt"
	"MaintLens/pkg/back"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	HeaderTenant = "X-Tenant-ID"
	CtxTenantId  = "tenant_id"

	FeatureNotifications = "notifications"
	FeatureAnalysis      = "analysis"
)

// Principal 已认证的调用方及其当前租户
type Principal struct {
	TenantId string
	Subject  string
}

type principalKey struct{}

func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Require 必须挂在 jwt.Auth 之后。
// 确定当前租户，校验调用方可代表该租户，且租户开通了 feature。
func Require(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenants := c.GetStringSlice(jwt.CtxTenants)
		tenantID := strings.TrimSpace(c.GetHeader(HeaderTenant))
		if tenantID == "" {
			if len(tenants) != 1 {
				back.Abort(c, xerr.BadRequest, "X-Tenant-ID header required")
				return
			}
			tenantID = tenants[0]
		}

		if !contains(tenants, tenantID) {
			zlog.Warn("tenant access denied",
				zap.String("tenant_id", tenantID),
				zap.String("username", c.GetString(jwt.CtxUsername)))
			back.Abort(c, xerr.Forbidden, "tenant not accessible")
			return
		}
		if !config.GetConfig().Entitled(tenantID, feature) {
			zlog.Warn("tenant not entitled",
				zap.String("tenant_id", tenantID),
				zap.String("feature", feature))
			back.Abort(c, xerr.Forbidden, "feature not enabled for tenant")
			return
		}

		c.Set(CtxTenantId, tenantID)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), Principal{
			TenantId: tenantID,
			Subject:  c.GetString(jwt.CtxUsername),
		}))
		c.Next()
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v || s == "*" {
			return true
		}
	}
	return false
}
