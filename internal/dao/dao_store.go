package dao

import (
	"github.com/haierkeys/shell-history-sync-service/internal/model"
	"github.com/haierkeys/shell-history-sync-service/pkg/timex"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// StoreRecordSet 待写入的记录（客户端提交的字段）
type StoreRecordSet struct {
	ClientID  string `json:"clientId" form:"clientId"`   // 客户端记录ID
	Host      string `json:"host" form:"host"`           // 主机标识
	Tag       string `json:"tag" form:"tag"`             // 分片标签
	Idx       uint64 `json:"idx" form:"idx"`             // 分片内序号
	Timestamp uint64 `json:"timestamp" form:"timestamp"` // 客户端时间戳（纳秒）
	Version   string `json:"version" form:"version"`     // 记录格式版本
	Data      string `json:"data" form:"data"`           // 密文负载
	Cek       string `json:"cek" form:"cek"`             // 包装后的内容加密密钥
}

// StoreAdd batch-inserts records. Rows colliding on (uid, host, tag, idx) are
// silently skipped, which makes a verbatim retry of the whole batch safe.
// StoreAdd 批量写入记录；(uid, host, tag, idx) 冲突的行被静默跳过，
// 因而整批原样重试是安全的
func (d *Dao) StoreAdd(uid int64, records []*StoreRecordSet) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]*model.StoreRecord, 0, len(records))
	now := timex.Now()
	for _, r := range records {
		rows = append(rows, &model.StoreRecord{
			ServerID:  ulid.Make().String(),
			ClientID:  r.ClientID,
			UID:       uid,
			Host:      r.Host,
			Tag:       r.Tag,
			Idx:       r.Idx,
			Timestamp: r.Timestamp,
			Version:   r.Version,
			Data:      r.Data,
			Cek:       r.Cek,
			CreatedAt: now,
		})
	}

	err := d.DB().
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 200).Error
	if err != nil {
		d.logger.Error("dao.StoreAdd err", zap.Int64("uid", uid), zap.Error(err))
		return err
	}
	return nil
}

// StoreGetNext 返回指定分片内 idx >= start 的记录，按 idx 升序，至多 count 条
func (d *Dao) StoreGetNext(uid int64, host string, tag string, start uint64, count int) ([]*model.StoreRecord, error) {
	var rows []*model.StoreRecord
	err := d.DB().
		Where("uid = ? AND host = ? AND tag = ? AND idx >= ?", uid, host, tag, start).
		Order("idx ASC").
		Limit(count).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// StoreDeleteByUID 删除账户的全部记录，返回删除行数；仅由账户销毁调用
func (d *Dao) StoreDeleteByUID(uid int64) (int64, error) {
	result := d.DB().
		Where("uid = ?", uid).
		Delete(&model.StoreRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
