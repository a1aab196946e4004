package tree

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestSyncRBSet_Basic(t *testing.T) {
	s := NewSyncRBSet[int](NewRBSetOf(3, 1, 2))
	require.Equal(t, int64(3), s.Len())
	require.True(t, s.Insert(4))
	require.False(t, s.Insert(4))
	require.Equal(t, 2, s.InsertMany(4, 5, 6))
	require.True(t, s.Contains(5))
	require.True(t, s.Remove(5))
	require.False(t, s.Remove(5))

	key, ok := s.LowerBound(5)
	require.True(t, ok)
	require.Equal(t, 6, key)
	_, ok = s.LowerBound(7)
	require.False(t, ok)

	key, ok = s.RemoveMin()
	require.True(t, ok)
	require.Equal(t, 1, key)
	require.Equal(t, []int{2, 3, 4, 6}, s.Keys())

	snapshot := s.Snapshot()
	s.Release()
	require.Equal(t, int64(0), s.Len())
	require.Equal(t, []int{2, 3, 4, 6}, snapshot.Keys())

	require.Panics(t, func() {
		NewSyncRBSet[int](nil)
	})
}

func TestSyncRBSet_Concurrent(t *testing.T) {
	s := NewSyncRBSet[int](NewOrderedRBSet[int]())
	writers, readers, perWriter := 8, 8, 500

	wg := sync.WaitGroup{}
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Insert(base*perWriter + i)
			}
			for i := 0; i < perWriter; i += 2 {
				s.Remove(base*perWriter + i)
			}
		}(w)
	}
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Contains(i)
				s.LowerBound(i)
				_ = s.Len()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(writers*perWriter/2), s.Len())
	expected := lo.Filter(lo.Range(writers*perWriter), func(k int, _ int) bool {
		return k%2 == 1
	})
	require.Equal(t, expected, s.Keys())
	require.NoError(t, Validate(s.Snapshot()))
}

func sumOf(t *testing.T, rm *metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			total := int64(0)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestSyncRBSet_Stats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	s := NewSyncRBSet[string](NewRBSetOf("a", "b"), WithSyncRBSetStats[string]("test"))
	s.Insert("c")
	s.Insert("c")
	s.InsertMany("d", "e", "a")
	s.Remove("b")
	s.Remove("zzz")
	s.RemoveMin()

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(3), sumOf(t, &rm, "xset.key.count"))
	require.Equal(t, int64(3), sumOf(t, &rm, "xset.insert.count"))
	require.Equal(t, int64(2), sumOf(t, &rm, "xset.remove.count"))

	s.Release()
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(0), sumOf(t, &rm, "xset.key.count"))
	require.Equal(t, int64(5), sumOf(t, &rm, "xset.remove.count"))
}

func TestSyncRBSet_StatsDisabled(t *testing.T) {
	var stats *syncRBSetStats
	stats.RecordInsert(1)
	stats.RecordRemove(1)
	stats.RecordKeyCount(1)
}
