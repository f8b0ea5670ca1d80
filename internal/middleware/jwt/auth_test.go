package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"MaintLens/internal/config"
	"MaintLens/pkg/util/myjwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.GetConfig()
	conf := config.Default()
	conf.JwtConfig.Key = "test-secret"
	conf.AuthConfig.APIKeys = []config.APIKey{{Key: "k-123", Tenant: "plant-a", Name: "scada"}}
	config.SetConfig(conf)
	t.Cleanup(func() { config.SetConfig(prev) })

	r := gin.New()
	r.GET("/who", Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uuid":     c.GetString(CtxUuid),
			"username": c.GetString(CtxUsername),
			"tenants":  c.GetStringSlice(CtxTenants),
		})
	})
	return r
}

func do(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthBearerToken(t *testing.T) {
	r := setup(t)
	token, err := myjwt.GenerateToken("U1", "alice", []string{"plant-a", "plant-b"})
	require.NoError(t, err)

	w := do(r, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uuid":"U1","username":"alice","tenants":["plant-a","plant-b"]}`, w.Body.String())
}

func TestAuthAPIKey(t *testing.T) {
	r := setup(t)

	w := do(r, map[string]string{HeaderAPIKey: "k-123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uuid":"apikey:scada","username":"scada","tenants":["plant-a"]}`, w.Body.String())
}

func TestAuthRejects(t *testing.T) {
	r := setup(t)

	cases := map[string]map[string]string{
		"no credentials":  {},
		"wrong scheme":    {"Authorization": "Basic abc"},
		"garbage token":   {"Authorization": "Bearer not.a.jwt"},
		"unknown api key": {HeaderAPIKey: "nope"},
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"code":401`)
		})
	}
}

func TestAuthInvalidAPIKeyWinsOverValidToken(t *testing.T) {
	r := setup(t)
	token, err := myjwt.GenerateToken("U1", "alice", []string{"plant-a"})
	require.NoError(t, err)

	w := do(r, map[string]string{"Authorization": "Bearer " + token, HeaderAPIKey: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
