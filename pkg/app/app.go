package app

import (
	"strings"

	"github.com/haierkeys/shell-history-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// ErrorRes is the error body sync clients expect.
// ErrorRes 是同步客户端约定的错误响应体
type ErrorRes struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// GetUID 从认证中间件写入的上下文中取出用户 ID，未认证时返回 0
func GetUID(c *gin.Context) int64 {
	v, ok := c.Get("user_token")
	if !ok {
		return 0
	}
	user, ok := v.(*UserEntity)
	if !ok {
		return 0
	}
	return user.UID
}

// GetUsername 从认证上下文中取出用户名
func GetUsername(c *gin.Context) string {
	v, ok := c.Get("user_token")
	if !ok {
		return ""
	}
	user, ok := v.(*UserEntity)
	if !ok {
		return ""
	}
	return user.Username
}

// ToResponse output to browser: success codes send their data (or an empty
// body), error codes send the protocol reason envelope with a real status.
// ToResponse 输出到浏览器：成功码输出数据（或空包体），
// 错误码以真实 HTTP 状态输出 reason 错误体
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	if codeObj.Status() {
		if codeObj.HaveData() {
			r.Ctx.JSON(codeObj.StatusCode(), codeObj.Data())
		} else {
			r.Ctx.Status(codeObj.StatusCode())
		}
		return
	}

	content := ErrorRes{
		Reason: codeObj.Msg(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	r.Ctx.JSON(codeObj.StatusCode(), content)
}
