package ops

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/provider"
)

func historyItem(n int) HistoryItem {
	return HistoryItem{
		ID:        fmt.Sprintf("h%02d", n),
		Timestamp: int64(n),
		Prompt:    fmt.Sprintf("prompt %d", n),
		Result:    provider.OptimizationResult{OptimizedText: "short"},
		Config:    advisor.DefaultConfig(),
	}
}

func TestPrependCapped(t *testing.T) {
	var h []HistoryItem
	for i := range 3 {
		h = prependCapped(h, historyItem(i), 2)
	}
	require.Len(t, h, 2)
	assert.Equal(t, "h02", h[0].ID)
	assert.Equal(t, "h01", h[1].ID)
}

func TestAppendHistory_CapsAtFifty(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	for i := range 50 {
		require.NoError(t, AppendHistory(ctx, database, cfg, "", historyItem(i)))
	}
	out, err := ListHistory(ctx, database, ListHistoryInput{Limit: 100})
	require.NoError(t, err)
	require.Equal(t, 50, out.Pagination.Total)
	assert.Equal(t, "h49", out.Items[0].ID)
	assert.Equal(t, "h00", out.Items[49].ID)

	require.NoError(t, AppendHistory(ctx, database, cfg, "", historyItem(50)))
	out, err = ListHistory(ctx, database, ListHistoryInput{Limit: 100})
	require.NoError(t, err)
	require.Equal(t, 50, out.Pagination.Total)
	assert.Equal(t, "h50", out.Items[0].ID)
	assert.Equal(t, "h01", out.Items[49].ID, "oldest entry evicted")
}

func TestAppendHistory_CustomLimit(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	cfg.HistoryLimit = 3

	for i := range 5 {
		require.NoError(t, AppendHistory(ctx, database, cfg, "", historyItem(i)))
	}
	out, err := ListHistory(ctx, database, ListHistoryInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Pagination.Total)
	assert.Equal(t, "h04", out.Items[0].ID)
}

func TestAppendHistory_LimitNeverExceedsDefault(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	cfg.HistoryLimit = 80

	for i := range 55 {
		require.NoError(t, AppendHistory(ctx, database, cfg, "", historyItem(i)))
	}
	out, err := ListHistory(ctx, database, ListHistoryInput{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, out.Pagination.Total)
	assert.Equal(t, "h54", out.Items[0].ID)
}

func TestAppendHistory_RedactsAPIKey(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)

	item := historyItem(1)
	item.Config.APIKey = "secret"
	require.NoError(t, AppendHistory(ctx, database, nil, "", item))

	out, err := ListHistory(ctx, database, ListHistoryInput{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Empty(t, out.Items[0].Config.APIKey)
}

func TestListHistory_ScopedByOwner(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)

	require.NoError(t, AppendHistory(ctx, database, nil, "Ada@Example.com", historyItem(1)))
	require.NoError(t, AppendHistory(ctx, database, nil, "", historyItem(2)))

	out, err := ListHistory(ctx, database, ListHistoryInput{Owner: "ada@example.com"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "h01", out.Items[0].ID)
	assert.Equal(t, "timestamp_desc", out.Sort)
}

func TestListHistory_EmptyAndClear(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)

	out, err := ListHistory(ctx, database, ListHistoryInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, 0, out.Pagination.Total)

	require.NoError(t, AppendHistory(ctx, database, nil, "", historyItem(1)))
	require.NoError(t, ClearHistory(ctx, database, ""))

	out, err = ListHistory(ctx, database, ListHistoryInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
