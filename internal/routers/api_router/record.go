package api_router

import (
	"github.com/haierkeys/shell-history-sync-service/internal/app"
	"github.com/haierkeys/shell-history-sync-service/internal/metrics"
	"github.com/haierkeys/shell-history-sync-service/internal/service"
	pkgapp "github.com/haierkeys/shell-history-sync-service/pkg/app"
	"github.com/haierkeys/shell-history-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordHandler 加密记录存储处理器
type RecordHandler struct {
	*Handler
}

// NewRecordHandler 创建记录存储处理器实例
func NewRecordHandler(a *app.App) *RecordHandler {
	return &RecordHandler{Handler: NewHandler(a)}
}

// Push 接收一批加密记录；整批原样重试是安全的
// POST /record
func (h *RecordHandler) Push(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	var records []*service.Record
	valid, errs := pkgapp.BindAndValid(c, &records)
	if !valid {
		h.App.Logger().Warn("record push bind err", zap.String("errors", errs.ErrorsToString()))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	if err := h.App.SyncService.StoreAdd(uid, records); err != nil {
		response.ToResponse(code.ErrorRecordAddFailed)
		return
	}

	metrics.RecordsPushed.Add(float64(len(records)))
	response.ToResponse(code.Success)
}

// Cursors 返回账户的分片游标索引
// GET /record
func (h *RecordHandler) Cursors(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	index, err := h.App.SyncService.StoreCursors(uid)
	if err != nil {
		response.ToResponse(code.ErrorRecordGetFailed)
		return
	}

	response.ToResponse(code.Success.WithData(index))
}

// Next 返回分片内 idx >= start 的一页记录
// GET /record/next?host=&tag=&count=&start=
func (h *RecordHandler) Next(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	params := &service.StoreNextParams{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	records, err := h.App.SyncService.StoreNextRecords(uid, params)
	if err != nil {
		response.ToResponse(code.ErrorRecordGetFailed)
		return
	}

	metrics.RecordsPulled.Add(float64(len(records)))
	response.ToResponse(code.Success.WithData(records))
}

// Wipe 不可逆地清空账户的记录存储
// DELETE /store
func (h *RecordHandler) Wipe(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	if _, err := h.App.SyncService.StoreWipe(uid); err != nil {
		response.ToResponse(code.ErrorStoreWipeFailed)
		return
	}

	metrics.StoreWipes.Inc()
	response.ToResponse(code.Success)
}
