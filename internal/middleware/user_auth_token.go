package middleware

import (
	"strings"

	"github.com/haierkeys/shell-history-sync-service/pkg/app"
	"github.com/haierkeys/shell-history-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserAuthToken 用户 Token 认证中间件（使用注入的解析器）。
// 同步客户端以 "Authorization: Token <token>" 携带凭据；
// 也接受裸 token 与 query 参数形式
func UserAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		response := app.NewResponse(c)

		if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("authorization"); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("authorization"); exist {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		}

		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		token = stripTokenScheme(token)

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set("user_token", user)

		c.Next()
	}
}

// stripTokenScheme 去掉 "Token " 或 "Bearer " 前缀（大小写不敏感）
func stripTokenScheme(s string) string {
	scheme, rest, ok := strings.Cut(s, " ")
	if !ok {
		return s
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(rest)
	}
	return s
}
