package jwt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"MaintLens/internal/config"
	"MaintLens/pkg/util/myjwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenFromAPIKey(t *testing.T) {
	r := setup(t)
	r.POST("/token", Auth(), IssueToken)

	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	req.Header.Set(HeaderAPIKey, "k-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data TokenRespond `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, []string{"plant-a"}, env.Data.Tenants)

	claims, err := myjwt.ParseToken(env.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "apikey:scada", claims.Uuid)
	assert.Equal(t, "scada", claims.Username)

	w = do(r, map[string]string{"Authorization": "Bearer " + env.Data.Token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueTokenWithoutKeyConfigured(t *testing.T) {
	r := setup(t)
	r.POST("/token", Auth(), IssueToken)

	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	req.Header.Set(HeaderAPIKey, "k-123")
	config.GetConfig().JwtConfig.Key = ""
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
