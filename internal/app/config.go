// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Sync     SyncConfig     `yaml:"sync"`
	Security SecurityConfig `yaml:"security"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
	// MaxSize 单个日志文件最大体积（MB）
	MaxSize int `yaml:"max-size" default:"100"`
	// MaxBackups 保留的旧日志文件数量
	MaxBackups int `yaml:"max-backups" default:"5"`
	// MaxAge 日志文件保留天数
	MaxAge int `yaml:"max-age" default:"30"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":8090"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（pprof + metrics）
	PrivateHttpListen string `yaml:"private-http-listen" default:":8091"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"shell-history-sync-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
}

// SyncConfig holds the limits injected into the sync engine components so
// none of them depends on ambient process state.
// SyncConfig 持有注入到同步引擎各组件的限制项，组件不依赖全局可变状态
type SyncConfig struct {
	// PageSize 所有分页响应统一的单页上限
	PageSize int `yaml:"page-size" default:"1100"`
	// MaxHistoryDataSize 历史负载的最大字节数，超限负载会被置为空信封
	MaxHistoryDataSize int `yaml:"max-history-data-size" default:"32768"`
	// MetricsCron 存储量遥测任务的调度表达式
	MetricsCron string `yaml:"metrics-cron" default:"@every 5m"`
}

// LoadConfig 从 yaml 文件加载配置，应用 default 标签的默认值
func LoadConfig(path string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "resolve config path")
	}

	content, err := os.ReadFile(realpath)
	if err != nil {
		return nil, "", errors.Wrap(err, "read config file")
	}

	c := &AppConfig{}
	if err := defaults.Set(c); err != nil {
		return nil, "", errors.Wrap(err, "apply config defaults")
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, "", errors.Wrap(err, "parse config file")
	}
	c.File = realpath

	return c, realpath, nil
}

// Save 将当前配置写回配置文件
func (c *AppConfig) Save() error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(c.File, content, 0644)
}

// GetTokenExpiry 解析 token-expiry，支持 7d / 24h / 30m 格式
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return parseHumanDuration(c.Security.TokenExpiry, 365*24*time.Hour)
}

// GetConnMaxLifetime 解析 conn-max-lifetime
func (c *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	return parseHumanDuration(c.ConnMaxLifetime, 30*time.Minute)
}

// parseHumanDuration 解析带 d 后缀的时长，其余交给 time.ParseDuration
func parseHumanDuration(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
