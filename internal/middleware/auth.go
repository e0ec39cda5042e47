package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sklink/internal/contextutils"
	"sklink/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthConfig holds authentication middleware settings.
type AuthConfig struct {
	JWTSecret  []byte
	CookieName string
}

// RoleOfficial is the generic role requirement satisfied by both official
// role values. Youth tokens never satisfy it.
const RoleOfficial = "official"

// roleAliases maps concrete roles to the generic requirements they satisfy.
var roleAliases = map[string][]string{
	models.RoleSuperOfficial:   {RoleOfficial, models.RoleSuperOfficial},
	models.RoleNaturalOfficial: {RoleOfficial, models.RoleNaturalOfficial},
}

// AuthMiddleware authenticates requests from the jwt cookie or a Bearer
// header and injects the actor into the request context.
type AuthMiddleware struct {
	config *AuthConfig
	logger *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(config *AuthConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{config: config, logger: logger}
}

// principal is what a parsed token resolves to.
type principal struct {
	Actor models.Actor
	Role  string
}

type principalKeyType struct{}

var principalKey principalKeyType

// Authenticate parses the session token. With required=true an absent or
// bad token ends the request; otherwise the request proceeds anonymously.
func (am *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := am.extractToken(r)
			if tokenString == "" {
				if required {
					am.writeAuthError(w, "authentication required", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			p, err := am.parseToken(tokenString)
			if err != nil {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				// Expired and malformed tokens get distinct messages so
				// clients know when to re-login versus report a bug.
				message := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					message = "token expired"
				}
				am.writeAuthError(w, message, http.StatusUnauthorized)
				return
			}

			ctx := contextutils.WithActor(r.Context(), p.Actor)
			ctx = context.WithValue(ctx, principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth requires a valid token.
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return am.Authenticate(true)
}

// OptionalAuth parses a token when present but never rejects.
func (am *AuthMiddleware) OptionalAuth() func(http.Handler) http.Handler {
	return am.Authenticate(false)
}

// RequireRole restricts the route to principals whose role satisfies any of
// the given requirements.
func (am *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := getPrincipal(r.Context())
			if !ok {
				am.writeAuthError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			if !roleSatisfies(p.Role, roles) {
				am.logger.Debug("role requirement not met",
					zap.String("actor", p.Actor.String()),
					zap.Strings("required", roles),
				)
				am.writeAuthError(w, "insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireKind restricts the route to one principal kind.
func (am *AuthMiddleware) RequireKind(kind models.ActorKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := contextutils.GetActor(r.Context())
			if !ok {
				am.writeAuthError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if actor.Kind != kind {
				am.writeAuthError(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleSatisfies(role string, required []string) bool {
	satisfied := roleAliases[role]
	for _, req := range required {
		for _, s := range satisfied {
			if s == req {
				return true
			}
		}
	}
	return false
}

// extractToken prefers the Bearer header, falling back to the cookie.
func (am *AuthMiddleware) extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	cookie, err := r.Cookie(am.config.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (am *AuthMiddleware) parseToken(tokenString string) (*principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return am.config.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	userType, _ := claims["userType"].(string)
	kind := models.ActorKind(userType)
	if kind != models.ActorOfficial && kind != models.ActorYouth {
		return nil, errors.New("unknown principal kind")
	}

	idFloat, ok := claims["id"].(float64)
	if !ok || idFloat <= 0 {
		return nil, errors.New("missing principal id")
	}

	role, _ := claims["role"].(string)
	return &principal{
		Actor: models.Actor{Kind: kind, ID: int64(idFloat)},
		Role:  role,
	}, nil
}

func getPrincipal(ctx context.Context) (*principal, bool) {
	p, ok := ctx.Value(principalKey).(*principal)
	return p, ok
}

func (am *AuthMiddleware) writeAuthError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    "AUTHENTICATION_ERROR",
			"message": message,
		},
		"timestamp": time.Now().Unix(),
	})
	w.Write(response)
}
