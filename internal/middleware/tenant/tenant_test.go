package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"MaintLens/internal/config"
	"MaintLens/internal/middleware/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, tenants []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.GetConfig()
	conf := config.Default()
	conf.TenantConfig.Entitlements = map[string][]string{
		"plant-a": {FeatureNotifications, FeatureAnalysis},
		"plant-b": {FeatureNotifications},
	}
	config.SetConfig(conf)
	t.Cleanup(func() { config.SetConfig(prev) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(jwt.CtxUsername, "alice")
		c.Set(jwt.CtxTenants, tenants)
		c.Next()
	})
	r.GET("/analysis", Require(FeatureAnalysis), func(c *gin.Context) {
		p, ok := FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"tenant": c.GetString(CtxTenantId), "ctx_tenant": p.TenantId, "subject": p.Subject, "ok": ok})
	})
	return r
}

func do(r *gin.Engine, tenantHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	if tenantHeader != "" {
		req.Header.Set(HeaderTenant, tenantHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSingleTenantDefault(t *testing.T) {
	w := do(setup(t, []string{"plant-a"}), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tenant":"plant-a","ctx_tenant":"plant-a","subject":"alice","ok":true}`, w.Body.String())
}

func TestRequireExplicitTenant(t *testing.T) {
	w := do(setup(t, []string{"plant-a", "plant-b"}), "plant-a")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAmbiguousTenant(t *testing.T) {
	w := do(setup(t, []string{"plant-a", "plant-b"}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(setup(t, nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireForeignTenant(t *testing.T) {
	w := do(setup(t, []string{"plant-a"}), "plant-c")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireFeatureNotEntitled(t *testing.T) {
	w := do(setup(t, []string{"plant-b"}), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "feature not enabled")
}

func TestRequireWildcardPrincipal(t *testing.T) {
	w := do(setup(t, []string{"*"}), "plant-a")
	assert.Equal(t, http.StatusOK, w.Code)
}
