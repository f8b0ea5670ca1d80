package jwt

import (
	"crypto/subtle"
	"strings"

	"MaintLens/internal/config"
	"MaintLens/pkg/back"
	"MaintLens/pkg/util/myjwt"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	HeaderAPIKey = "X-API-Key"

	CtxUuid     = "uuid"
	CtxUsername = "username"
	CtxTenants  = "tenants"
)

// Auth 接受 Bearer JWT 或 X-API-Key，二者皆无效时返回 401
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := strings.TrimSpace(c.GetHeader(HeaderAPIKey)); key != "" {
			entry, ok := lookupAPIKey(key)
			if !ok {
				zlog.Warn("api key rejected", zap.String("path", c.FullPath()), zap.String("client_ip", c.ClientIP()))
				back.Abort(c, xerr.Unauthorized, "invalid api key")
				return
			}
			c.Set(CtxUuid, "apikey:"+entry.Name)
			c.Set(CtxUsername, entry.Name)
			c.Set(CtxTenants, []string{entry.Tenant})
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			back.Abort(c, xerr.Unauthorized, "missing or invalid authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := myjwt.ParseToken(tokenString)
		if err != nil {
			zlog.Warn("token rejected", zap.Error(err), zap.String("path", c.FullPath()))
			back.Abort(c, xerr.Unauthorized, "invalid token")
			return
		}

		c.Set(CtxUuid, claims.Uuid)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxTenants, claims.Tenants)
		c.Next()
	}
}

func lookupAPIKey(key string) (config.APIKey, bool) {
	for _, k := range config.GetConfig().AuthConfig.APIKeys {
		if k.Key != "" && subtle.ConstantTimeCompare([]byte(k.Key), []byte(key)) == 1 {
			return k, true
		}
	}
	return config.APIKey{}, false
}
