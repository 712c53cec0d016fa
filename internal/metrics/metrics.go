// Package metrics 定义同步服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsPushed 客户端提交的加密记录总数（含被幂等跳过的重复）
	RecordsPushed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shell_history_sync",
		Name:      "records_pushed_total",
		Help:      "Number of encrypted records submitted by clients.",
	})

	// RecordsPulled 客户端增量拉取返回的记录总数
	RecordsPulled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shell_history_sync",
		Name:      "records_pulled_total",
		Help:      "Number of encrypted records returned to clients.",
	})

	// HistoryPushed 客户端提交的历史条目总数
	HistoryPushed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shell_history_sync",
		Name:      "history_pushed_total",
		Help:      "Number of history items submitted by clients.",
	})

	// HistoryDeleted 墓碑化的历史条目总数
	HistoryDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shell_history_sync",
		Name:      "history_deleted_total",
		Help:      "Number of history items tombstoned by clients.",
	})

	// StoreWipes 全量清空操作次数
	StoreWipes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shell_history_sync",
		Name:      "store_wipes_total",
		Help:      "Number of full store wipes.",
	})

	// StoreCursorTotal 全系统分片游标之和，由遥测任务周期刷新
	StoreCursorTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shell_history_sync",
		Name:      "store_cursor_total",
		Help:      "System-wide sum of shard cursor indices.",
	})
)
