// Package service 实现同步引擎的业务编排层
package service

import (
	"context"

	"github.com/haierkeys/shell-history-sync-service/internal/dao"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Config holds the limits injected into the engine at construction; the
// service never reads ambient process state.
// Config 持有构造时注入的限制项，服务不读取全局可变状态
type Config struct {
	// PageSize 所有分页响应统一的单页上限
	PageSize int
	// MaxHistoryDataSize 历史负载大小上限（字节）
	MaxHistoryDataSize int
}

// Service is a pure composition over the record store, the cursor cache and
// the history timeline; it owns no state of its own.
// Service 是记录存储、游标缓存与历史时间线之上的纯组合层，自身无状态
type Service struct {
	ctx    context.Context
	dao    *dao.Dao
	cfg    Config
	logger *zap.Logger
	sf     *singleflight.Group
}

// New 创建 Service 实例
func New(ctx context.Context, d *dao.Dao, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ctx:    ctx,
		dao:    d,
		cfg:    cfg,
		logger: logger,
		sf:     &singleflight.Group{},
	}
}

// WithSF 注入跨请求共享的 singleflight 组
func (svc *Service) WithSF(sf *singleflight.Group) *Service {
	if sf != nil {
		svc.sf = sf
	}
	return svc
}

// PageSize 返回注入的分页上限
func (svc *Service) PageSize() int {
	return svc.cfg.PageSize
}
