package jwt

import (
	"MaintLens/pkg/back"
	"MaintLens/pkg/util/myjwt"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenRespond struct {
	Token   string   `json:"token"`
	Tenants []string `json:"tenants"`
}

// IssueToken 为已通过 Auth 的调用方签发 Bearer token，租户范围与当前身份一致
func IssueToken(c *gin.Context) {
	uuid := c.GetString(CtxUuid)
	if uuid == "" {
		back.Error(c, xerr.Unauthorized, "unauthorized")
		return
	}
	tenants := c.GetStringSlice(CtxTenants)
	token, err := myjwt.GenerateToken(uuid, c.GetString(CtxUsername), tenants)
	if err != nil {
		zlog.Error("issue token failed", zap.Error(err), zap.String("uuid", uuid))
		back.Result(c, nil, xerr.ErrMisconfigured)
		return
	}
	back.Success(c, &TokenRespond{Token: token, Tenants: tenants})
}
