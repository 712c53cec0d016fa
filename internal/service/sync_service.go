package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/dao"
	"github.com/haierkeys/shell-history-sync-service/pkg/envelope"

	"go.uber.org/zap"
)

// HistoryItem 客户端提交的一条历史记录
type HistoryItem struct {
	ID        string    `json:"id" binding:"required"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Data      string    `json:"data" binding:"required"`
	Hostname  string    `json:"hostname" binding:"required"`
}

// HistoryPullParams 历史增量拉取参数
type HistoryPullParams struct {
	SyncTs    time.Time
	HistoryTs time.Time
	Host      string
}

// SyncStatus 旧版客户端的同步状态
type SyncStatus struct {
	Count   int64    `json:"count"`
	Deleted []string `json:"deleted"`
}

// HistoryAdd stores the batch idempotently. Payloads that are not a valid
// two-field ciphertext envelope, or exceed the size ceiling, are stored with
// the empty-envelope placeholder instead of being rejected, so one bad item
// never blocks the rest of the batch.
// HistoryAdd 幂等写入整批历史。非法或超限的负载以空信封占位落库而非拒绝，
// 单条坏数据不会阻塞整批
func (svc *Service) HistoryAdd(uid int64, items []*HistoryItem) error {
	if len(items) == 0 {
		return nil
	}

	sets := make([]*dao.HistorySet, 0, len(items))
	sanitized := 0
	for _, item := range items {
		data := envelope.Sanitize(item.Data, svc.cfg.MaxHistoryDataSize)
		if data != item.Data {
			sanitized++
		}
		sets = append(sets, &dao.HistorySet{
			ClientID:  item.ID,
			Hostname:  item.Hostname,
			Timestamp: item.Timestamp,
			Data:      data,
		})
	}

	if err := svc.dao.HistoryAdd(uid, sets); err != nil {
		return err
	}

	if sanitized > 0 {
		svc.logger.Warn("history payloads sanitized",
			zap.Int64("uid", uid),
			zap.Int("sanitized", sanitized),
			zap.Int("total", len(items)))
	}
	return nil
}

// HistoryList returns opaque payload strings newer than the history
// watermark, excluding the requesting host's own contributions. sync_ts is
// accepted for wire compatibility but the watermark is history_ts.
// HistoryList 返回晚于水位线的密文负载，排除请求方主机自己的记录。
// sync_ts 仅为兼容保留，实际水位线是 history_ts
func (svc *Service) HistoryList(uid int64, params *HistoryPullParams) ([]string, error) {
	rows, err := svc.dao.HistoryList(uid, params.HistoryTs, params.Host, svc.cfg.PageSize)
	if err != nil {
		return nil, err
	}

	history := make([]string, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.Data)
	}
	return history, nil
}

// HistoryDelete 将一条历史标记为已删除；幂等，重复调用无效果
func (svc *Service) HistoryDelete(uid int64, clientID string) error {
	return svc.dao.HistoryDelete(uid, clientID)
}

// HistoryCount 返回账户未删除历史条数
func (svc *Service) HistoryCount(uid int64) (int64, error) {
	return svc.dao.HistoryCount(uid)
}

// HistoryStatus 返回旧版客户端用于本地清理的状态：未删除条数与墓碑ID列表
func (svc *Service) HistoryStatus(uid int64) (*SyncStatus, error) {
	count, err := svc.dao.HistoryCount(uid)
	if err != nil {
		return nil, err
	}
	deleted, err := svc.dao.HistoryDeletedClientIDs(uid)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		deleted = []string{}
	}
	return &SyncStatus{Count: count, Deleted: deleted}, nil
}

// Focus 日历聚合粒度
type Focus string

const (
	FocusDay   Focus = "day"
	FocusMonth Focus = "month"
	FocusYear  Focus = "year"
)

// ParseFocus 校验并返回聚合粒度
func ParseFocus(s string) (Focus, error) {
	switch Focus(s) {
	case FocusDay, FocusMonth, FocusYear:
		return Focus(s), nil
	}
	return "", fmt.Errorf("unknown focus %q", s)
}

// CalendarCount 单个日历单元的计数
type CalendarCount struct {
	Count int `json:"count"`
}

// HistoryCalendar groups non-deleted item counts by calendar unit, computed
// in the requested timezone even though stored timestamps are UTC. A record
// near midnight UTC lands on the previous local day under a negative offset
// large enough to cross the boundary.
// HistoryCalendar 按日历单元统计未删除条目，聚合在请求的时区内完成；
// 存储时间戳为 UTC，跨越午夜的偏移会把记录归入前一个本地日
func (svc *Service) HistoryCalendar(uid int64, focus Focus, year int, month int, tz string) (map[int]CalendarCount, error) {
	loc, err := ParseTimezone(tz)
	if err != nil {
		return nil, err
	}

	timestamps, err := svc.dao.HistoryTimestamps(uid)
	if err != nil {
		return nil, err
	}

	result := map[int]CalendarCount{}
	for _, ts := range timestamps {
		local := ts.In(loc)

		var unit int
		switch focus {
		case FocusYear:
			unit = local.Year()
		case FocusMonth:
			if year > 0 && local.Year() != year {
				continue
			}
			unit = int(local.Month())
		case FocusDay:
			if year > 0 && local.Year() != year {
				continue
			}
			if month > 0 && int(local.Month()) != month {
				continue
			}
			unit = local.Day()
		}

		c := result[unit]
		c.Count++
		result[unit] = c
	}
	return result, nil
}

// ParseTimezone resolves tz as an IANA name or a fixed ±HH[:MM] offset,
// defaulting to UTC.
// ParseTimezone 按 IANA 名称或固定 ±HH[:MM] 偏移解析时区，默认 UTC
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	s := tz
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	default:
		return nil, fmt.Errorf("invalid timezone %q", tz)
	}

	hours := 0
	minutes := 0
	var err error
	if h, m, ok := strings.Cut(s, ":"); ok {
		if hours, err = strconv.Atoi(h); err != nil {
			return nil, fmt.Errorf("invalid timezone %q", tz)
		}
		if minutes, err = strconv.Atoi(m); err != nil {
			return nil, fmt.Errorf("invalid timezone %q", tz)
		}
	} else if hours, err = strconv.Atoi(s); err != nil {
		return nil, fmt.Errorf("invalid timezone %q", tz)
	}
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("invalid timezone %q", tz)
	}

	offset := sign * (hours*3600 + minutes*60)
	return time.FixedZone(tz, offset), nil
}
