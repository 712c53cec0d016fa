package middleware

import (
	"github.com/haierkeys/shell-history-sync-service/global"

	"github.com/gin-gonic/gin"
)

// AppInfo 将应用名称与版本写入请求上下文
func AppInfo(version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", global.Name)
		c.Set("app_version", version)

		c.Next()
	}
}
