package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/shell-history-sync-service/pkg/envelope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHistory(host string, n int) []*HistoryItem {
	var items []*HistoryItem
	for i := 0; i < n; i++ {
		items = append(items, &HistoryItem{
			ID:        fmt.Sprintf("%s-%d", host, i),
			Timestamp: time.Date(2024, 3, 10, 2, 22, 17, 946000000, time.UTC),
			Data:      fmt.Sprintf(`{"ciphertext":"c%d","nonce":"n%d"}`, i, i),
			Hostname:  host,
		})
	}
	return items
}

func TestHistoryAdd_Idempotent(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	items := makeHistory("host-a", 3)

	require.NoError(t, svc.HistoryAdd(uid, items))
	require.NoError(t, svc.HistoryAdd(uid, items))

	count, err := svc.HistoryCount(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

// 非法负载被替换为空信封落库，而不是拒绝整批
func TestHistoryAdd_SanitizesInvalidPayload(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	items := []*HistoryItem{
		{ID: "ok", Timestamp: time.Now().UTC(), Data: `{"ciphertext":"c","nonce":"n"}`, Hostname: "host-a"},
		{ID: "plain", Timestamp: time.Now().UTC(), Data: "ls -la", Hostname: "host-a"},
		{ID: "extra", Timestamp: time.Now().UTC(), Data: `{"ciphertext":"c","nonce":"n","x":1}`, Hostname: "host-a"},
	}
	require.NoError(t, svc.HistoryAdd(uid, items))

	history, err := svc.HistoryList(uid, &HistoryPullParams{Host: "host-b"})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, `{"ciphertext":"c","nonce":"n"}`, history[0])
	assert.Equal(t, envelope.Empty, history[1])
	assert.Equal(t, envelope.Empty, history[2])
}

func TestHistoryAdd_OversizedPayload(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	big := fmt.Sprintf(`{"ciphertext":"%s","nonce":"n"}`, strings.Repeat("a", 40000))
	items := []*HistoryItem{
		{ID: "big", Timestamp: time.Now().UTC(), Data: big, Hostname: "host-a"},
	}
	require.NoError(t, svc.HistoryAdd(uid, items))

	history, err := svc.HistoryList(uid, &HistoryPullParams{Host: "host-b"})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, envelope.Empty, history[0])
}

// 拉取排除请求方主机自己的记录，且水位线按服务端同步时间过滤
func TestHistoryList_ExcludesOwnHost(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	require.NoError(t, svc.HistoryAdd(uid, makeHistory("host-a", 2)))
	require.NoError(t, svc.HistoryAdd(uid, makeHistory("host-b", 3)))

	history, err := svc.HistoryList(uid, &HistoryPullParams{Host: "host-a"})
	require.NoError(t, err)
	assert.Len(t, history, 3)

	history, err = svc.HistoryList(uid, &HistoryPullParams{Host: "host-b"})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// 水位线晚于全部同步时间时返回空
	history, err = svc.HistoryList(uid, &HistoryPullParams{
		Host:      "host-a",
		HistoryTs: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryDelete_Tombstone(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)
	require.NoError(t, svc.HistoryAdd(uid, makeHistory("host-a", 3)))

	require.NoError(t, svc.HistoryDelete(uid, "host-a-1"))
	require.NoError(t, svc.HistoryDelete(uid, "host-a-1"))

	count, err := svc.HistoryCount(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	status, err := svc.HistoryStatus(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Count)
	assert.Equal(t, []string{"host-a-1"}, status.Deleted)

	// 墓碑条目不再出现在其他主机的拉取结果里
	history, err := svc.HistoryList(uid, &HistoryPullParams{Host: "host-b"})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestHistoryStatus_EmptyAccount(t *testing.T) {
	svc := newTestService(t)

	status, err := svc.HistoryStatus(9)
	require.NoError(t, err)
	assert.Zero(t, status.Count)
	require.NotNil(t, status.Deleted)
	assert.Empty(t, status.Deleted)
}

// 日历聚合在请求时区内完成：UTC 凌晨的记录在足够大的负偏移下归入前一天
func TestHistoryCalendar_TimezoneBoundary(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	// 2024-03-10T02:22:17.946Z
	require.NoError(t, svc.HistoryAdd(uid, makeHistory("host-a", 1)))

	days, err := svc.HistoryCalendar(uid, FocusDay, 2024, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 1, days[10].Count)

	days, err = svc.HistoryCalendar(uid, FocusDay, 2024, 3, "-10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, days[9].Count)
	assert.Zero(t, days[10].Count)
}

func TestHistoryCalendar_Granularities(t *testing.T) {
	svc := newTestService(t)
	uid := int64(1)

	items := []*HistoryItem{
		{ID: "a", Timestamp: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), Data: `{"ciphertext":"c","nonce":"n"}`, Hostname: "h"},
		{ID: "b", Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Data: `{"ciphertext":"c","nonce":"n"}`, Hostname: "h"},
		{ID: "c", Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), Data: `{"ciphertext":"c","nonce":"n"}`, Hostname: "h"},
		{ID: "d", Timestamp: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), Data: `{"ciphertext":"c","nonce":"n"}`, Hostname: "h"},
	}
	require.NoError(t, svc.HistoryAdd(uid, items))

	years, err := svc.HistoryCalendar(uid, FocusYear, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, years[2023].Count)
	assert.Equal(t, 3, years[2024].Count)

	months, err := svc.HistoryCalendar(uid, FocusMonth, 2024, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, months[1].Count)
	assert.Equal(t, 1, months[2].Count)

	days, err := svc.HistoryCalendar(uid, FocusDay, 2024, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, days[1].Count)
	assert.Equal(t, 1, days[15].Count)

	// 已删除条目不计入日历
	require.NoError(t, svc.HistoryDelete(uid, "c"))
	days, err = svc.HistoryCalendar(uid, FocusDay, 2024, 1, "")
	require.NoError(t, err)
	assert.Zero(t, days[15].Count)
}

func TestParseFocus(t *testing.T) {
	for _, s := range []string{"day", "month", "year"} {
		focus, err := ParseFocus(s)
		require.NoError(t, err)
		assert.Equal(t, Focus(s), focus)
	}
	_, err := ParseFocus("week")
	assert.Error(t, err)
}

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		tz         string
		wantOffset int
		wantErr    bool
	}{
		{tz: "", wantOffset: 0},
		{tz: "UTC", wantOffset: 0},
		{tz: "+02:00", wantOffset: 2 * 3600},
		{tz: "-10:00", wantOffset: -10 * 3600},
		{tz: "+5", wantOffset: 5 * 3600},
		{tz: "-09:30", wantOffset: -(9*3600 + 30*60)},
		{tz: "bogus/zone", wantErr: true},
		{tz: "+25:00", wantErr: true},
		{tz: "+01:99", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).In(loc).Zone()
			assert.Equal(t, tt.wantOffset, offset)
		})
	}

	// IANA 名称解析出随季节变化的偏移
	loc, err := ParseTimezone("America/New_York")
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).In(loc).Zone()
	assert.Equal(t, -5*3600, offset)
}
