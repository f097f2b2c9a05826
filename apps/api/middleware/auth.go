package middleware

import (
	"net/http"
	"strings"

	"go-storefront/apps/api/model"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthRequired 解析 Bearer Token，把 userId/email/role 写入请求上下文
// 当前用户只在这里解析一次，后续 Handler 统一从 Context 读取
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取 Header 里的 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, response.CodeAuthRequired, "Authentication required")
			return
		}

		// 2. 格式通常是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortError(c, http.StatusUnauthorized, response.CodeAuthRequired, "Authorization header format must be Bearer {token}")
			return
		}

		// 3. 解析 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, response.CodeAuthRequired, "Invalid token")
			return
		}

		// 4. 存入 Context，供后续 Handler 使用
		c.Set("userId", claims.UserId)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AdminRequired 管理端路由的角色闸门，必须挂在 AuthRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != model.RoleAdmin {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// UserID 从 Context 取当前用户 ID
func UserID(c *gin.Context) int64 {
	return c.MustGet("userId").(int64)
}

// IsAdmin 当前请求是否为管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetString("role") == model.RoleAdmin
}
