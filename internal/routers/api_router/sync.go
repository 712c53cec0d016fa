package api_router

import (
	"strings"
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/app"
	"github.com/haierkeys/shell-history-sync-service/internal/metrics"
	"github.com/haierkeys/shell-history-sync-service/internal/service"
	pkgapp "github.com/haierkeys/shell-history-sync-service/pkg/app"
	"github.com/haierkeys/shell-history-sync-service/pkg/code"
	"github.com/haierkeys/shell-history-sync-service/pkg/convert"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// legacyStatusVersion 起，客户端不再消费 status 的 count/deleted 字段
const legacyStatusVersion = "v18.4.0"

// SyncHandler 历史时间线与同步状态处理器
type SyncHandler struct {
	*Handler
}

// NewSyncHandler 创建同步处理器实例
func NewSyncHandler(a *app.App) *SyncHandler {
	return &SyncHandler{Handler: NewHandler(a)}
}

// AddHistory 幂等接收一批历史条目
// POST /history
func (h *SyncHandler) AddHistory(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	var items []*service.HistoryItem
	valid, errs := pkgapp.BindAndValid(c, &items)
	if !valid {
		h.App.Logger().Warn("history add bind err", zap.String("errors", errs.ErrorsToString()))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	if err := h.App.SyncService.HistoryAdd(uid, items); err != nil {
		response.ToResponse(code.ErrorHistoryAddFailed)
		return
	}

	metrics.HistoryPushed.Add(float64(len(items)))
	response.ToResponse(code.Success)
}

type historyDeleteRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// DeleteHistory 将一条历史标记为已删除
// DELETE /history
func (h *SyncHandler) DeleteHistory(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	param := &historyDeleteRequest{}
	valid, errs := pkgapp.BindAndValid(c, param)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return
	}

	if err := h.App.SyncService.HistoryDelete(uid, param.ClientID); err != nil {
		response.ToResponse(code.ErrorHistoryDelFailed)
		return
	}

	metrics.HistoryDeleted.Inc()
	response.ToResponse(code.Success)
}

// History 增量拉取历史，排除请求方主机自己的记录
// GET /sync/history?sync_ts=&history_ts=&host=
func (h *SyncHandler) History(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	params := &service.HistoryPullParams{Host: c.Query("host")}

	// sync_ts 仅为协议兼容而解析，水位线是 history_ts
	var err error
	if params.SyncTs, err = parseWireTime(c.Query("sync_ts")); err != nil {
		response.ToResponse(code.ErrorInvalidTimestamp)
		return
	}
	if params.HistoryTs, err = parseWireTime(c.Query("history_ts")); err != nil {
		response.ToResponse(code.ErrorInvalidTimestamp)
		return
	}

	history, err := h.App.SyncService.HistoryList(uid, params)
	if err != nil {
		response.ToResponse(code.ErrorHistoryGetFailed)
		return
	}

	h.App.Logger().Info("history pulled",
		zap.Int64("uid", uid),
		zap.Int("count", len(history)))
	response.ToResponse(code.Success.WithData(gin.H{"history": history}))
}

// Count 返回账户未删除历史条数
// GET /sync/count
func (h *SyncHandler) Count(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	count, err := h.App.SyncService.HistoryCount(uid)
	if err != nil {
		response.ToResponse(code.ErrorStatusGetFailed)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"count": count}))
}

type syncStatusResponse struct {
	Count    int64    `json:"count"`
	Username string   `json:"username"`
	Deleted  []string `json:"deleted"`
	PageSize int      `json:"page_size"`
	Version  string   `json:"version"`
}

// Status returns the sync status body. Clients at or above 18.4.0 use the
// record store and ignore count/deleted, so those are only computed for
// older clients (atuin-version header).
// Status 返回同步状态。18.4.0 及以上的客户端不消费 count/deleted，
// 仅为旧客户端计算这两个字段
// GET /sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	status := &syncStatusResponse{
		Deleted:  []string{},
		Username: pkgapp.GetUsername(c),
		PageSize: h.App.SyncService.PageSize(),
		Version:  app.APIVersion,
	}

	clientVersion := c.GetHeader("atuin-version")
	if clientVersion == "" {
		clientVersion = "0.0.0"
	}
	if !strings.HasPrefix(clientVersion, "v") {
		clientVersion = "v" + clientVersion
	}

	if semver.Compare(clientVersion, legacyStatusVersion) < 0 {
		legacy, err := h.App.SyncService.HistoryStatus(uid)
		if err != nil {
			response.ToResponse(code.ErrorStatusGetFailed)
			return
		}
		status.Count = legacy.Count
		status.Deleted = legacy.Deleted
	}

	response.ToResponse(code.Success.WithData(status))
}

// Calendar 按日历单元统计历史条目
// GET /sync/calendar/:focus?year=&month=&tz=
func (h *SyncHandler) Calendar(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)

	focus, err := service.ParseFocus(c.Param("focus"))
	if err != nil {
		response.ToResponse(code.ErrorInvalidFocus)
		return
	}

	var year, month int
	if s := c.Query("year"); s != "" {
		if year, err = convert.StrTo(s).Int(); err != nil {
			response.ToResponse(code.ErrorInvalidParams)
			return
		}
	}
	if s := c.Query("month"); s != "" {
		if month, err = convert.StrTo(s).Int(); err != nil {
			response.ToResponse(code.ErrorInvalidParams)
			return
		}
	}

	result, err := h.App.SyncService.HistoryCalendar(uid, focus, year, month, c.Query("tz"))
	if err != nil {
		if _, tzErr := service.ParseTimezone(c.Query("tz")); tzErr != nil {
			response.ToResponse(code.ErrorInvalidTimezone)
			return
		}
		response.ToResponse(code.ErrorCalendarFailed)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// parseWireTime 解析 RFC3339 时间戳参数，空串视为零值水位线
func parseWireTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
