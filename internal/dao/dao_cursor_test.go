package dao

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/gookit/goutil/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var testDBSeq atomic.Int64

func newTestDao(t *testing.T) *Dao {
	t.Helper()

	dsn := fmt.Sprintf("file:dao_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, ""))

	return New(db, context.Background())
}

// 游标 upsert 是后写覆盖，包括写入更小的序号
func TestCursorUpsert_LastWriteWins(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	require.NoError(t, d.CursorUpsert(uid, "host-a", "history", 10))
	require.NoError(t, d.CursorUpsert(uid, "host-a", "history", 3))

	rows, err := d.CursorList(uid)
	require.NoError(t, err)
	dump.P(rows)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(3), rows[0].Idx)
}

func TestCursorTotal_AcrossAccounts(t *testing.T) {
	d := newTestDao(t)

	total, err := d.CursorTotal()
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, d.CursorUpsert(1, "host-a", "history", 5))
	require.NoError(t, d.CursorUpsert(1, "host-a", "kv", 2))
	require.NoError(t, d.CursorUpsert(2, "host-b", "history", 7))

	total, err = d.CursorTotal()
	require.NoError(t, err)
	assert.Equal(t, uint64(14), total)
}

// (uid, host, tag, idx) 冲突的行被静默跳过
func TestStoreAdd_ConflictSkipped(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	records := []*StoreRecordSet{
		{ClientID: "r0", Host: "host-a", Tag: "history", Idx: 0, Version: "v0", Data: "c0", Cek: "k"},
		{ClientID: "r1", Host: "host-a", Tag: "history", Idx: 1, Version: "v0", Data: "c1", Cek: "k"},
	}
	require.NoError(t, d.StoreAdd(uid, records))
	require.NoError(t, d.StoreAdd(uid, records))

	rows, err := d.StoreGetNext(uid, "host-a", "history", 0, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// 服务端ID是每行独立生成的
	assert.NotEqual(t, rows[0].ServerID, rows[1].ServerID)
}

func TestHistoryDelete_KeepsRowAsTombstone(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	require.NoError(t, d.HistoryAdd(uid, []*HistorySet{
		{ClientID: "h0", Hostname: "host-a", Timestamp: time.Now().UTC(), Data: "{}"},
	}))
	require.NoError(t, d.HistoryDelete(uid, "h0"))

	count, err := d.HistoryCount(uid)
	require.NoError(t, err)
	assert.Zero(t, count)

	deleted, err := d.HistoryDeletedClientIDs(uid)
	require.NoError(t, err)
	assert.Equal(t, []string{"h0"}, deleted)

	// 账户销毁才会移除墓碑行
	removed, err := d.HistoryDeleteByUID(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
