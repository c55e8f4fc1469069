package clickhouse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
	chstore "media-mix-lab/internal/storage/clickhouse"
)

func TestSpendSeriesStore_Integration(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewSpendSeriesStore(conn)
	ctx := context.Background()

	t.Run("insert bulk and get by channel", func(t *testing.T) {
		points := []*domain.SpendPoint{
			{ChannelID: "search", PeriodStart: 86400, Spend: 500, Impressions: 50000, Conversions: 120, Value: 6000},
			{ChannelID: "search", PeriodStart: 172800, Spend: 600, Impressions: 58000, Conversions: 140, Value: 7100},
			{ChannelID: "social", PeriodStart: 86400, Spend: 300, Impressions: 40000, Conversions: 60, Value: 2400},
		}
		require.NoError(t, store.InsertBulk(ctx, points))

		got, err := store.GetByChannelID(ctx, "search")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, int64(86400), got[0].PeriodStart)
		require.InDelta(t, 500.0, got[0].Spend, 1e-9)
	})

	t.Run("duplicate detection", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.SpendPoint{
			{ChannelID: "search", PeriodStart: 86400, Spend: 1},
		})
		require.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)
	})

	t.Run("intra-batch duplicate", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.SpendPoint{
			{ChannelID: "email", PeriodStart: 86400, Spend: 1},
			{ChannelID: "email", PeriodStart: 86400, Spend: 2},
		})
		require.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)
	})

	t.Run("list channel ids", func(t *testing.T) {
		ids, err := store.ListChannelIDs(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"search", "social"}, ids)
	})
}
