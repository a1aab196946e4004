package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBSetStatsName = "xset/rbset"
)

type syncRBSetStats struct {
	keyCount    metric.Int64UpDownCounter
	insertCount metric.Int64Counter
	removeCount metric.Int64Counter
}

func (stats *syncRBSetStats) RecordKeyCount(count int64) {
	if stats == nil {
		return
	}
	stats.keyCount.Add(context.Background(), count)
}

func (stats *syncRBSetStats) RecordInsert(count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.keyCount.Add(context.Background(), count)
	stats.insertCount.Add(context.Background(), count)
}

func (stats *syncRBSetStats) RecordRemove(count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.keyCount.Add(context.Background(), -count)
	stats.removeCount.Add(context.Background(), count)
}

func newSyncRBSetStats(name string) *syncRBSetStats {
	meterName := fmt.Sprintf("%s/%s", RBSetStatsName, name)
	meter := otel.Meter(meterName)
	return &syncRBSetStats{
		keyCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xset.key.count",
			metric.WithDescription("The number of keys in the set."),
		)),
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xset.insert.count",
			metric.WithDescription("The number of new keys inserted into the set."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xset.remove.count",
			metric.WithDescription("The number of keys removed from the set."),
		)),
	}
}
