package model

import "github.com/haierkeys/shell-history-sync-service/pkg/timex"

const TableNameStoreRecord = "store_record"

// StoreRecord is one immutable, opaque record inside a shard. The composite
// unique index on (uid, host, tag, idx) is what makes re-submission a no-op.
// StoreRecord 是分片内一条不可变的密文记录；
// (uid, host, tag, idx) 组合唯一索引保证重复提交为无操作
type StoreRecord struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	ServerID  string     `gorm:"column:server_id;type:varchar(26);not null;uniqueIndex:idx_store_server_id" json:"serverId" form:"serverId"`
	ClientID  string     `gorm:"column:client_id;type:varchar(64);not null" json:"clientId" form:"clientId"`
	UID       int64      `gorm:"column:uid;not null;uniqueIndex:idx_store_shard,priority:1" json:"uid" form:"uid"`
	Host      string     `gorm:"column:host;type:varchar(64);not null;uniqueIndex:idx_store_shard,priority:2" json:"host" form:"host"`
	Tag       string     `gorm:"column:tag;type:varchar(64);not null;uniqueIndex:idx_store_shard,priority:3" json:"tag" form:"tag"`
	Idx       uint64     `gorm:"column:idx;not null;uniqueIndex:idx_store_shard,priority:4" json:"idx" form:"idx"`
	Timestamp uint64     `gorm:"column:timestamp;not null" json:"timestamp" form:"timestamp"`
	Version   string     `gorm:"column:version;type:varchar(16);not null" json:"version" form:"version"`
	Data      string     `gorm:"column:data;type:text;not null" json:"data" form:"data"`
	Cek       string     `gorm:"column:cek;type:text;not null" json:"cek" form:"cek"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime" json:"createdAt" form:"createdAt"`
}

// TableName StoreRecord's table name
func (*StoreRecord) TableName() string {
	return TableNameStoreRecord
}
