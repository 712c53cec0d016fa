package logger

import (
	"os"

	"github.com/haierkeys/shell-history-sync-service/pkg/fileurl"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string
	// File 日志文件路径，为空时输出到 stderr
	File string
	// Production 是否启用 JSON 输出
	Production bool
	// MaxSize 单个日志文件最大体积（MB）
	MaxSize int
	// MaxBackups 保留的旧日志文件数量
	MaxBackups int
	// MaxAge 日志文件保留天数
	MaxAge int
}

// NewLogger builds the process logger: JSON in production, console otherwise,
// with lumberjack rotation when a file path is configured.
// NewLogger 构建进程日志器：生产环境 JSON 输出，否则控制台输出，
// 配置了文件路径时通过 lumberjack 轮转
func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	var encoder zapcore.Encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if c.Production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	if c.File != "" {
		if err := fileurl.CreatePath(c.File, os.ModePerm); err != nil {
			return nil, err
		}
		maxSize := c.MaxSize
		if maxSize <= 0 {
			maxSize = 100
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    maxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			LocalTime:  true,
		})
		// 文件日志同时镜像到 stderr，便于容器环境收集
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(os.Stderr))
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()), nil
}
