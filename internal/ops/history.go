package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/db"
	"github.com/hpungsan/erde/internal/provider"
)

// DefaultHistoryLimit caps history when config leaves it unset. Configured
// limits can lower the cap but never raise it.
const DefaultHistoryLimit = 50

// HistoryItem is one successful optimization.
type HistoryItem struct {
	ID        string                      `json:"id"`
	Timestamp int64                       `json:"timestamp"`
	Prompt    string                      `json:"prompt"`
	Result    provider.OptimizationResult `json:"result"`
	Config    advisor.OptimizationConfig  `json:"config"`
}

// historyLimit resolves the configured cap.
func historyLimit(cfg *config.Config) int {
	if cfg == nil || cfg.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return min(cfg.HistoryLimit, DefaultHistoryLimit)
}

// prependCapped puts item first and keeps at most limit entries, evicting
// the oldest.
func prependCapped(history []HistoryItem, item HistoryItem, limit int) []HistoryItem {
	out := make([]HistoryItem, 0, min(len(history)+1, limit))
	out = append(out, item)
	for _, h := range history {
		if len(out) == limit {
			break
		}
		out = append(out, h)
	}
	return out
}

// AppendHistory records item as the newest entry for owner. The config
// snapshot is stored without its API key.
func AppendHistory(ctx context.Context, database *sql.DB, cfg *config.Config, owner string, item HistoryItem) error {
	item.Config = item.Config.Redacted()
	limit := historyLimit(cfg)
	return db.UpdateJSON(ctx, database, db.HistoryKey(NormalizeOwner(owner)), func(h *[]HistoryItem) error {
		*h = prependCapped(*h, item, limit)
		return nil
	})
}

// loadHistory returns owner's history, newest first.
func loadHistory(ctx context.Context, database *sql.DB, owner string) ([]HistoryItem, error) {
	return db.GetJSON[[]HistoryItem](ctx, database, db.HistoryKey(NormalizeOwner(owner)))
}

// ListHistoryInput contains parameters for the ListHistory operation.
type ListHistoryInput struct {
	Owner  string
	Limit  int // default: 20, max: 100
	Offset int
}

// ListHistoryOutput contains the result of the ListHistory operation.
type ListHistoryOutput struct {
	Items      []HistoryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Sort       string        `json:"sort"`
}

// ListHistory returns a page of owner's history, newest first.
func ListHistory(ctx context.Context, database *sql.DB, input ListHistoryInput) (*ListHistoryOutput, error) {
	history, err := loadHistory(ctx, database, input.Owner)
	if err != nil {
		return nil, err
	}
	items, page := paginate(history, input.Limit, input.Offset)
	return &ListHistoryOutput{Items: items, Pagination: page, Sort: "timestamp_desc"}, nil
}

// ClearHistory removes all history for owner.
func ClearHistory(ctx context.Context, database *sql.DB, owner string) error {
	return db.DeleteBlob(ctx, database, db.HistoryKey(NormalizeOwner(owner)))
}
