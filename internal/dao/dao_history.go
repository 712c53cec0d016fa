package dao

import (
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/model"
	"github.com/haierkeys/shell-history-sync-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// HistorySet 待写入的历史条目（负载已经过信封清洗）
type HistorySet struct {
	ClientID  string    `json:"clientId" form:"clientId"`   // 客户端去重ID
	Hostname  string    `json:"hostname" form:"hostname"`   // 来源主机
	Timestamp time.Time `json:"timestamp" form:"timestamp"` // 客户端时间戳
	Data      string    `json:"data" form:"data"`           // 密文负载
}

// HistoryAdd inserts items idempotently, keyed by (uid, client_id). CreatedAt
// is the server sync timestamp used by incremental pulls.
// HistoryAdd 以 (uid, client_id) 幂等写入；CreatedAt 为服务端同步时间戳，
// 用于驱动增量拉取
func (d *Dao) HistoryAdd(uid int64, items []*HistorySet) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]*model.History, 0, len(items))
	for _, item := range items {
		rows = append(rows, &model.History{
			UID:       uid,
			ClientID:  item.ClientID,
			Hostname:  item.Hostname,
			Timestamp: item.Timestamp,
			Data:      item.Data,
			CreatedAt: now,
		})
	}

	err := d.DB().
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 200).Error
	if err != nil {
		d.logger.Error("dao.HistoryAdd err", zap.Int64("uid", uid), zap.Error(err))
		return err
	}
	return nil
}

// HistoryList 返回 created_at 晚于 after、来源主机不等于 excludeHost 的
// 未删除条目，按 created_at 升序，至多 limit 条
func (d *Dao) HistoryList(uid int64, after time.Time, excludeHost string, limit int) ([]*model.History, error) {
	var rows []*model.History
	err := d.DB().
		Where("uid = ? AND created_at > ? AND hostname <> ? AND is_deleted = 0", uid, after, excludeHost).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryDelete flips the tombstone. Repeat calls are no-ops; the row itself
// survives until account deletion so other devices can learn of the removal.
// HistoryDelete 翻转墓碑标记；重复调用为无操作，行本身保留到账户销毁
func (d *Dao) HistoryDelete(uid int64, clientID string) error {
	return d.DB().
		Model(&model.History{}).
		Where("uid = ? AND client_id = ? AND is_deleted = 0", uid, clientID).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"deleted_at": timex.Now(),
		}).Error
}

// HistoryCount 返回账户未删除条目数
func (d *Dao) HistoryCount(uid int64) (int64, error) {
	var count int64
	err := d.DB().
		Model(&model.History{}).
		Where("uid = ? AND is_deleted = 0", uid).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HistoryDeletedClientIDs 返回账户全部已墓碑化的 client_id，供旧客户端清理本地
func (d *Dao) HistoryDeletedClientIDs(uid int64) ([]string, error) {
	var ids []string
	err := d.DB().
		Model(&model.History{}).
		Where("uid = ? AND is_deleted = 1", uid).
		Pluck("client_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// HistoryTimestamps 返回账户全部未删除条目的客户端时间戳，供日历聚合
func (d *Dao) HistoryTimestamps(uid int64) ([]time.Time, error) {
	var timestamps []time.Time
	err := d.DB().
		Model(&model.History{}).
		Where("uid = ? AND is_deleted = 0", uid).
		Pluck("timestamp", &timestamps).Error
	if err != nil {
		return nil, err
	}
	return timestamps, nil
}

// HistoryDeleteByUID 删除账户全部历史行（含墓碑），返回删除行数
func (d *Dao) HistoryDeleteByUID(uid int64) (int64, error) {
	result := d.DB().
		Where("uid = ?", uid).
		Delete(&model.History{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
