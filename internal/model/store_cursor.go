package model

import "github.com/haierkeys/shell-history-sync-service/pkg/timex"

const TableNameStoreCursor = "store_cursor"

// StoreCursor is the per-shard high-watermark cache. Idx holds the idx of the
// last successfully applied batch tail, not a guaranteed maximum.
// StoreCursor 是分片高水位缓存；Idx 记录最近一次成功写入的批尾序号，
// 并非严格最大值
type StoreCursor struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;uniqueIndex:idx_cursor_shard,priority:1" json:"uid" form:"uid"`
	Host      string     `gorm:"column:host;type:varchar(64);not null;uniqueIndex:idx_cursor_shard,priority:2" json:"host" form:"host"`
	Tag       string     `gorm:"column:tag;type:varchar(64);not null;uniqueIndex:idx_cursor_shard,priority:3" json:"tag" form:"tag"`
	Idx       uint64     `gorm:"column:idx;not null" json:"idx" form:"idx"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime" json:"updatedAt" form:"updatedAt"`
}

// TableName StoreCursor's table name
func (*StoreCursor) TableName() string {
	return TableNameStoreCursor
}
