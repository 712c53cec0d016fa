package service

import (
	"github.com/haierkeys/shell-history-sync-service/internal/dao"

	"go.uber.org/zap"
)

// RecordHost 记录来源主机
type RecordHost struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

// RecordData 密文负载与包装密钥
type RecordData struct {
	Data                 string `json:"data" binding:"required"`
	ContentEncryptionKey string `json:"content_encryption_key" binding:"required"`
}

// Record 同步协议中的一条记录
type Record struct {
	ID        string     `json:"id" binding:"required"`
	Idx       uint64     `json:"idx"`
	Host      RecordHost `json:"host" binding:"required"`
	Tag       string     `json:"tag" binding:"required"`
	Timestamp uint64     `json:"timestamp"`
	Version   string     `json:"version" binding:"required"`
	Data      RecordData `json:"data" binding:"required"`
}

// CursorIndex 游标索引响应：主机 → 标签 → 已记录的最高序号
type CursorIndex struct {
	Hosts map[string]map[string]uint64 `json:"hosts"`
}

// StoreNextParams 增量拉取请求参数
type StoreNextParams struct {
	Host  string `form:"host" binding:"required"`
	Tag   string `form:"tag" binding:"required"`
	Count int    `form:"count"`
	Start uint64 `form:"start"`
}

// StoreAdd inserts the batch, then advances the cursor from the batch's last
// record. The two steps are independently idempotent rather than one
// transaction: a crash in between leaves the cursor stale until the next
// successful add for that shard. Clients submit batches as contiguous,
// index-ordered runs per shard, which is what makes the tail record the
// right cursor value.
// StoreAdd 先整批写入，再以批尾记录推进游标。两步各自幂等而非同一事务：
// 中途崩溃会让游标短暂落后，直到该分片下一次成功写入
func (svc *Service) StoreAdd(uid int64, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	sets := make([]*dao.StoreRecordSet, 0, len(records))
	for _, r := range records {
		sets = append(sets, &dao.StoreRecordSet{
			ClientID:  r.ID,
			Host:      r.Host.ID,
			Tag:       r.Tag,
			Idx:       r.Idx,
			Timestamp: r.Timestamp,
			Version:   r.Version,
			Data:      r.Data.Data,
			Cek:       r.Data.ContentEncryptionKey,
		})
	}

	if err := svc.dao.StoreAdd(uid, sets); err != nil {
		return err
	}

	last := records[len(records)-1]
	if err := svc.dao.CursorUpsert(uid, last.Host.ID, last.Tag, last.Idx); err != nil {
		return err
	}

	svc.logger.Info("store records added",
		zap.Int64("uid", uid),
		zap.Int("count", len(records)),
		zap.String("host", last.Host.ID),
		zap.String("tag", last.Tag),
		zap.Uint64("idx", last.Idx))
	return nil
}

// StoreNextRecords 返回分片内 idx >= start 的一页记录，受统一分页上限约束
func (svc *Service) StoreNextRecords(uid int64, params *StoreNextParams) ([]*Record, error) {
	count := params.Count
	if count <= 0 || count > svc.cfg.PageSize {
		count = svc.cfg.PageSize
	}

	rows, err := svc.dao.StoreGetNext(uid, params.Host, params.Tag, params.Start, count)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, &Record{
			ID:        row.ClientID,
			Idx:       row.Idx,
			Host:      RecordHost{ID: row.Host},
			Tag:       row.Tag,
			Timestamp: row.Timestamp,
			Version:   row.Version,
			Data: RecordData{
				Data:                 row.Data,
				ContentEncryptionKey: row.Cek,
			},
		})
	}
	return records, nil
}

// StoreCursors 返回账户全部分片游标，作为客户端决定推送内容的依据。
// 账户没有任何分片时返回空映射而非错误
func (svc *Service) StoreCursors(uid int64) (*CursorIndex, error) {
	rows, err := svc.dao.CursorList(uid)
	if err != nil {
		return nil, err
	}

	index := &CursorIndex{Hosts: map[string]map[string]uint64{}}
	for _, row := range rows {
		if _, ok := index.Hosts[row.Host]; !ok {
			index.Hosts[row.Host] = map[string]uint64{}
		}
		index.Hosts[row.Host][row.Tag] = row.Idx
	}
	return index, nil
}

// StoreWipe 不可逆地清空账户的记录存储，返回删除行数
func (svc *Service) StoreWipe(uid int64) (int64, error) {
	removed, err := svc.dao.StoreDeleteByUID(uid)
	if err != nil {
		return 0, err
	}
	svc.logger.Warn("store wiped", zap.Int64("uid", uid), zap.Int64("removed", removed))
	return removed, nil
}

// StoreTotal returns the system-wide cursor sum; concurrent callers collapse
// into one query through singleflight.
// StoreTotal 返回全系统游标总和；并发调用经 singleflight 合并为一次查询
func (svc *Service) StoreTotal() (uint64, error) {
	v, err, _ := svc.sf.Do("store-total", func() (interface{}, error) {
		return svc.dao.CursorTotal()
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}
