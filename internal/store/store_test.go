package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func snapshotAt(n int) temperature.Snapshot {
	return temperature.Snapshot{
		ID:        fmt.Sprintf("snap-%d", n),
		Source:    "http",
		FetchedAt: base.Add(time.Duration(n) * time.Hour),
		Dataset: temperature.Dataset{
			BaseTemperature: 8.66,
			Records: []temperature.Record{
				{Year: 1753, Month: 1, Variance: -1.366},
				{Year: 1753, Month: 2, Variance: float64(n)},
			},
		},
	}
}

type storeUnderTest interface {
	temperature.Store
	setNow(func() time.Time)
}

func (s *MemoryStore) setNow(now func() time.Time) { s.now = now }
func (s *SQLiteStore) setNow(now func() time.Time) { s.now = now }

func stores(t *testing.T, retention Retention) map[string]storeUnderTest {
	t.Helper()
	sqlite, err := OpenSQLite(context.Background(), ":memory:", retention)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]storeUnderTest{
		"memory": NewMemoryStore(retention),
		"sqlite": sqlite,
	}
}

func TestStoreEmpty(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{}) {
		t.Run(name, func(t *testing.T) {
			_, err := st.GetLatest(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = st.GetRange(ctx, base, base.Add(time.Hour))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreLatestAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{}) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(i)))
			}

			latest, err := st.GetLatest(ctx)
			require.NoError(t, err)

			want := snapshotAt(2)
			assert.Equal(t, want.ID, latest.ID)
			assert.Equal(t, want.Source, latest.Source)
			assert.True(t, want.FetchedAt.Equal(latest.FetchedAt))
			assert.Equal(t, want.Dataset, latest.Dataset)
		})
	}
}

func TestStoreRange(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{}) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(i)))
			}

			got, err := st.GetRange(ctx, base.Add(time.Hour), base.Add(3*time.Hour))
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "snap-1", got[0].ID)
			assert.Equal(t, "snap-3", got[2].ID)

			_, err = st.GetRange(ctx, base.Add(10*time.Hour), base.Add(11*time.Hour))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRetentionByCount(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{MaxHistory: 2}) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 4; i++ {
				require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(i)))
			}

			got, err := st.GetRange(ctx, base, base.Add(24*time.Hour))
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "snap-2", got[0].ID)
			assert.Equal(t, "snap-3", got[1].ID)
		})
	}
}

func TestStoreRetentionByAge(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{MaxAge: 90 * time.Minute}) {
		t.Run(name, func(t *testing.T) {
			st.setNow(func() time.Time { return base.Add(3 * time.Hour) })
			for i := 0; i < 4; i++ {
				require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(i)))
			}

			got, err := st.GetRange(ctx, base, base.Add(24*time.Hour))
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "snap-2", got[0].ID)
			assert.Equal(t, "snap-3", got[1].ID)
		})
	}
}

func TestStoreKeepsNewestEvenWhenExpired(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t, Retention{MaxAge: time.Minute}) {
		t.Run(name, func(t *testing.T) {
			st.setNow(func() time.Time { return base.Add(48 * time.Hour) })
			require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(0)))
			require.NoError(t, st.SaveSnapshot(ctx, snapshotAt(1)))

			latest, err := st.GetLatest(ctx)
			require.NoError(t, err)
			assert.Equal(t, "snap-1", latest.ID)

			got, err := st.GetRange(ctx, base, base.Add(24*time.Hour))
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}
