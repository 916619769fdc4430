package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrihub/pkg/auth"
	"agrihub/pkg/logger"
)

// AuthMiddleware 认证中间件配置
type AuthMiddleware struct {
	logger    logger.Logger
	jwtConfig *auth.JWTConfig
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(log logger.Logger, jwtConfig *auth.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{
		logger:    log,
		jwtConfig: jwtConfig,
	}
}

// GinAuth Gin认证中间件，用于受保护的管理接口
func (am *AuthMiddleware) GinAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.extractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			am.logger.Warn(c.Request.Context(), "Missing authorization token",
				logger.F("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			c.Abort()
			return
		}

		// 验证JWT token
		claims, err := auth.ParseToken(token, am.jwtConfig)
		if err != nil {
			am.logger.Warn(c.Request.Context(), "Invalid token",
				logger.F("error", err.Error()),
				logger.F("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// 将用户信息存储到上下文，仅用于分析归因
		if sub, ok := claims["sub"].(string); ok {
			c.Set("userID", sub)
		}
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}

		c.Next()
	}
}

// extractTokenFromHeader 从Authorization头提取token
func (am *AuthMiddleware) extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}
