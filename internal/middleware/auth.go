package middleware

import (
	"strings"

	"tutor_backend/internal/config"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验认证服务签发的会话令牌。websocket 握手无法带头部，允许 ?token=
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWTSecret, cfg.Issuer)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetUserInContext(c, claims)
		c.Next()
	}
}

type CredentialExchanger interface {
	Exchange(claims *util.Claims) (*util.StoreCredential, error)
	Anonymous() *util.StoreCredential
}

// StoreCredentialMiddleware 为每个请求换取数据存储凭证；失败时降级为匿名只读凭证
func StoreCredentialMiddleware(exchanger CredentialExchanger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)

		cred, err := exchanger.Exchange(claims)
		if err != nil {
			logger.Log.Warn("Store credential exchange failed, falling back to anonymous",
				zap.Error(err),
				zap.String("path", c.FullPath()),
			)
			cred = exchanger.Anonymous()
		}

		c.Request = c.Request.WithContext(util.WithStoreCredential(c.Request.Context(), cred))
		c.Next()
	}
}
