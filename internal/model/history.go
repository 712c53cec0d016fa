package model

import (
	"time"

	"github.com/haierkeys/shell-history-sync-service/pkg/timex"
)

const TableNameHistory = "history"

// History is one legacy-path timeline item. ClientID dedupes retries per
// account; CreatedAt is the server sync timestamp driving incremental pulls;
// IsDeleted is a one-way tombstone, the row is only removed by account wipe.
// History 是旧同步路径上的一条时间线记录。ClientID 按账户去重；
// CreatedAt 为服务端同步时间戳，驱动增量拉取；IsDeleted 为单向墓碑标记
type History struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;uniqueIndex:idx_history_client,priority:1;index:idx_history_pull,priority:1" json:"uid" form:"uid"`
	ClientID  string     `gorm:"column:client_id;type:varchar(64);not null;uniqueIndex:idx_history_client,priority:2" json:"clientId" form:"clientId"`
	Hostname  string     `gorm:"column:hostname;type:varchar(128);not null" json:"hostname" form:"hostname"`
	Timestamp time.Time  `gorm:"column:timestamp;not null" json:"timestamp" form:"timestamp"`
	Data      string     `gorm:"column:data;type:text;not null" json:"data" form:"data"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;index:idx_history_pull,priority:2" json:"createdAt" form:"createdAt"`
	IsDeleted int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted" form:"isDeleted"`
	DeletedAt timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt" form:"deletedAt"`
}

// TableName History's table name
func (*History) TableName() string {
	return TableNameHistory
}
