package dao

import (
	"github.com/haierkeys/shell-history-sync-service/internal/model"
	"github.com/haierkeys/shell-history-sync-service/pkg/timex"

	"gorm.io/gorm/clause"
)

// CursorUpsert sets the shard cursor to idx, overwriting any prior value.
// Last write wins by design: with concurrent writers on one shard the cursor
// reflects whichever request finished last, self-correcting on the next add
// with a higher idx. See StoreAdd for the ordering assumption.
// CursorUpsert 将分片游标覆盖为 idx。刻意采用后写覆盖：
// 同分片并发写入时游标反映最后完成的请求，下一次更高 idx 的写入会自愈
func (d *Dao) CursorUpsert(uid int64, host string, tag string, idx uint64) error {
	row := &model.StoreCursor{
		UID:       uid,
		Host:      host,
		Tag:       tag,
		Idx:       idx,
		UpdatedAt: timex.Now(),
	}
	return d.DB().
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}, {Name: "host"}, {Name: "tag"}},
			DoUpdates: clause.AssignmentColumns([]string{"idx", "updated_at"}),
		}).
		Create(row).Error
}

// CursorList 返回账户的全部分片游标
func (d *Dao) CursorList(uid int64) ([]*model.StoreCursor, error) {
	var rows []*model.StoreCursor
	err := d.DB().
		Where("uid = ?", uid).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CursorTotal sums idx across every shard cursor system-wide. This is a cheap
// sizing metric, not a row count: it sums indices and is not per-user scoped.
// CursorTotal 汇总全系统游标 idx 之和；仅作容量参考，不是精确行数
func (d *Dao) CursorTotal() (uint64, error) {
	var total uint64
	err := d.DB().
		Model(&model.StoreCursor{}).
		Select("COALESCE(SUM(idx), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
