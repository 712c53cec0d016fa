package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/haierkeys/shell-history-sync-service/internal/dao"
	"github.com/haierkeys/shell-history-sync-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var testDBSeq atomic.Int64

// newTestService 在内存数据库上构建完整的服务实例。
// 每次调用使用独立的共享缓存内存库，连接池内各连接看到同一份数据
func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, ""))

	d := dao.New(db, context.Background())
	return New(context.Background(), d, Config{
		PageSize:           1100,
		MaxHistoryDataSize: 32768,
	}, nil)
}

func makeRecords(host, tag string, from, to uint64) []*Record {
	var records []*Record
	for i := from; i <= to; i++ {
		records = append(records, &Record{
			ID:        fmt.Sprintf("%s-%s-%d", host, tag, i),
			Idx:       i,
			Host:      RecordHost{ID: host},
			Tag:       tag,
			Timestamp: 1700000000000000000 + i,
			Version:   "v0",
			Data:      RecordData{Data: fmt.Sprintf("cipher-%d", i), ContentEncryptionKey: "cek"},
		})
	}
	return records
}

func TestStoreAdd_Idempotent(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	batch := makeRecords("host-a", "history", 0, 4)

	require.NoError(t, svc.StoreAdd(uid, batch))
	require.NoError(t, svc.StoreAdd(uid, batch))

	rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0})
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	index, err := svc.StoreCursors(uid)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), index.Hosts["host-a"]["history"])
}

// 游标语义是后写覆盖而非取最大值：低序号批次在高序号批次之后提交时，
// 游标回退到低序号批次的批尾
func TestStoreAdd_CursorLastWriteWins(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-a", "history", 0, 5)))
	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-a", "history", 0, 2)))

	index, err := svc.StoreCursors(uid)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), index.Hosts["host-a"]["history"])

	// 记录本身不受影响，仍保留全部 6 条
	rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0})
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestStoreNextRecords_Paging(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-a", "history", 0, 9)))

	rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 3, Count: 4})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, uint64(3+i), row.Idx)
	}

	// count 缺省或超过上限时统一收敛到配置的页大小
	rows, err = svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0, Count: 0})
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	rows, err = svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0, Count: 999999})
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	// 越过分片尾部的 start 返回空页而非错误
	rows, err = svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 100})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreNextRecords_ShardIsolation(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	other := int64(2)

	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-a", "history", 0, 2)))
	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-b", "history", 0, 4)))
	require.NoError(t, svc.StoreAdd(other, makeRecords("host-a", "history", 0, 8)))

	rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	index, err := svc.StoreCursors(uid)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), index.Hosts["host-a"]["history"])
	assert.Equal(t, uint64(4), index.Hosts["host-b"]["history"])
}

func TestStoreCursors_EmptyAccount(t *testing.T) {
	svc := newTestService(t)

	index, err := svc.StoreCursors(42)
	require.NoError(t, err)
	require.NotNil(t, index.Hosts)
	assert.Empty(t, index.Hosts)
}

func TestStoreWipe(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	require.NoError(t, svc.StoreAdd(uid, makeRecords("host-a", "history", 0, 4)))

	removed, err := svc.StoreWipe(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(5), removed)

	rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-a", Tag: "history", Start: 0})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// 再次清空是无操作
	removed, err = svc.StoreWipe(uid)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStoreTotal(t *testing.T) {
	svc := newTestService(t)

	total, err := svc.StoreTotal()
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, svc.StoreAdd(1, makeRecords("host-a", "history", 0, 5)))
	require.NoError(t, svc.StoreAdd(2, makeRecords("host-b", "history", 0, 7)))

	total, err = svc.StoreTotal()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), total)
}

// 幂等性质：任意批次重复提交与提交一次等价
func TestProperty_StoreAddIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("replayed batch leaves records and cursor unchanged", prop.ForAll(
		func(size uint8, replays uint8) bool {
			svc := newTestService(t)
			uid := int64(7)
			batch := makeRecords("host-p", "history", 0, uint64(size))

			if err := svc.StoreAdd(uid, batch); err != nil {
				return false
			}
			for i := 0; i < int(replays%3)+1; i++ {
				if err := svc.StoreAdd(uid, batch); err != nil {
					return false
				}
			}

			rows, err := svc.StoreNextRecords(uid, &StoreNextParams{Host: "host-p", Tag: "history", Start: 0})
			if err != nil || len(rows) != int(size)+1 {
				return false
			}
			index, err := svc.StoreCursors(uid)
			if err != nil {
				return false
			}
			return index.Hosts["host-p"]["history"] == uint64(size)
		},
		gen.UInt8Range(0, 20),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
