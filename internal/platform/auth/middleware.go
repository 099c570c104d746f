// Package auth は外部の認証基盤が発行した Bearer トークンを検証する。
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"KMA-backend/internal/platform/apierr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

func unauthorized(msg string) *apierr.Error {
	return &apierr.Error{Code: apierr.CodeUnauthorized, Message: msg}
}

func forbidden(msg string) *apierr.Error {
	return &apierr.Error{Code: apierr.CodeForbidden, Message: msg}
}

// RequireAuth: Authorization: Bearer <token> を検証して context に sub/role を詰める
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apierr.Abort(c, unauthorized("missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierr.Abort(c, unauthorized("invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			apierr.Abort(c, unauthorized("empty token"))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || token == nil || !token.Valid {
			apierr.Abort(c, unauthorized("invalid token"))
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			apierr.Abort(c, unauthorized("missing sub"))
			return
		}

		role, _ := claims["role"].(string)

		c.Set(CtxUserIDKey, sub)
		c.Set(CtxRoleKey, role)
		c.Next()
	}
}

// RequireRole: 例) admin のみ許可したい時に追加
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			apierr.Abort(c, forbidden("missing role"))
			return
		}
		if _, allowed := roleSet[role]; !allowed {
			apierr.Abort(c, forbidden("forbidden"))
			return
		}
		c.Next()
	}
}

// UserID: 検証済みトークンの sub（未認証なら空）
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
