// Package app 提供应用容器，封装所有依赖和服务
package app

// 版本信息变量，由构建时注入
var (
	Version   string = "0.9.0"
	GitTag    string = "2000.01.01.release"
	BuildTime string = "2000-01-01T00:00:00+0800"
)

const (
	// Name 应用名称
	Name = "Shell History Sync Service"

	// APIVersion is the sync protocol version reported to clients.
	// APIVersion 是向客户端报告的同步协议版本
	APIVersion = "18.4.0"
)
