package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sklink/internal/contextutils"
	"sklink/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newTestAuth() *AuthMiddleware {
	return NewAuthMiddleware(&AuthConfig{JWTSecret: testSecret, CookieName: "jwt"}, zap.NewNop())
}

func signToken(t *testing.T, kind models.ActorKind, id int64, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userType": string(kind),
		"id":       id,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func okHandler(captured *models.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := contextutils.GetActor(r.Context()); ok && captured != nil {
			*captured = actor
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	am := newTestAuth()
	var actor models.Actor

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.ActorYouth, 12, "", time.Hour))
	rec := httptest.NewRecorder()

	am.RequireAuth()(okHandler(&actor)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Actor{Kind: models.ActorYouth, ID: 12}, actor)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	am := newTestAuth()
	var actor models.Actor

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: signToken(t, models.ActorOfficial, 3, models.RoleSuperOfficial, time.Hour)})
	rec := httptest.NewRecorder()

	am.RequireAuth()(okHandler(&actor)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ActorOfficial, actor.Kind)
}

func TestRequireAuthMissingToken(t *testing.T) {
	am := newTestAuth()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	am.RequireAuth()(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestRequireAuthExpiredToken(t *testing.T) {
	am := newTestAuth()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.ActorYouth, 12, "", -time.Minute))
	rec := httptest.NewRecorder()

	am.RequireAuth()(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestRequireAuthWrongSecret(t *testing.T) {
	am := newTestAuth()

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userType": "youth",
		"id":       12,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	rec := httptest.NewRecorder()

	am.RequireAuth()(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestOptionalAuthProceedsAnonymously(t *testing.T) {
	am := newTestAuth()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	am.OptionalAuth()(okHandler(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAliases(t *testing.T) {
	am := newTestAuth()

	cases := []struct {
		name string
		role string
		want int
	}{
		{"super official satisfies official", models.RoleSuperOfficial, http.StatusOK},
		{"natural official satisfies official", models.RoleNaturalOfficial, http.StatusOK},
		{"youth token has no role", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind := models.ActorOfficial
			if tc.role == "" {
				kind = models.ActorYouth
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, kind, 1, tc.role, time.Hour))
			rec := httptest.NewRecorder()

			chain := am.RequireAuth()(am.RequireRole(RoleOfficial)(okHandler(nil)))
			chain.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireKind(t *testing.T) {
	am := newTestAuth()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.ActorOfficial, 1, models.RoleSuperOfficial, time.Hour))
	rec := httptest.NewRecorder()

	chain := am.RequireAuth()(am.RequireKind(models.ActorYouth)(okHandler(nil)))
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
