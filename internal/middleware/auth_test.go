package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayvardhann/careflow-scheduler/internal/config"
	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/utils"
)

func setupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(cfg))
	router.GET("/me", func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	router.GET("/admin", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func tokenFor(t *testing.T, cfg *config.Config, role models.Role) string {
	t.Helper()
	user := &models.User{Role: role}
	user.ID = "user-42"
	access, _, err := utils.GenerateTokens(user, cfg)
	require.NoError(t, err)
	return access
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", JWTRefreshSecret: "r", JWTExpirationMinutes: 5, JWTRefreshExpirationHours: 1}
	router := setupRouter(cfg)
	patientToken := tokenFor(t, cfg, models.RolePatient)
	adminToken := tokenFor(t, cfg, models.RoleAdmin)

	cases := []struct {
		name   string
		path   string
		header map[string]string
		code   int
	}{
		{"no token", "/me", nil, http.StatusUnauthorized},
		{"malformed header", "/me", map[string]string{"Authorization": "Token abc"}, http.StatusUnauthorized},
		{"bad signature", "/me", map[string]string{"Authorization": "Bearer " + tokenFor(t, &config.Config{JWTSecret: "other", JWTRefreshSecret: "r"}, models.RoleAdmin)}, http.StatusUnauthorized},
		{"valid", "/me", map[string]string{"Authorization": "Bearer " + patientToken}, http.StatusOK},
		{"query token ignored without upgrade", "/me?token=" + patientToken, nil, http.StatusUnauthorized},
		{"query token on upgrade", "/me?token=" + patientToken, map[string]string{"Connection": "Upgrade", "Upgrade": "websocket"}, http.StatusOK},
		{"role denied", "/admin", map[string]string{"Authorization": "Bearer " + patientToken}, http.StatusForbidden},
		{"role allowed", "/admin", map[string]string{"Authorization": "Bearer " + adminToken}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, `{"id":"user-42","role":"`+string(models.RolePatient)+`"}`, w.Body.String())
			}
		})
	}
}
