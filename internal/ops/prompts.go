package ops

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/hpungsan/erde/internal/db"
	"github.com/hpungsan/erde/internal/errors"
	"github.com/hpungsan/erde/internal/session"
)

// SavedPrompt is a prompt the user kept for reuse.
type SavedPrompt struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	OptimizedPrompt string   `json:"optimizedPrompt,omitempty"`
	CreatedAt       int64    `json:"createdAt"`
	LastUsed        int64    `json:"lastUsed"`
	UseCount        int      `json:"useCount"`
	Tags            []string `json:"tags,omitempty"`
}

// SavePromptInput contains parameters for the SavePrompt operation.
type SavePromptInput struct {
	Owner           string
	Prompt          string // required
	OptimizedPrompt string
	Tags            []string
}

// SavePrompt stores a prompt for owner and counts it on tracker.
func SavePrompt(ctx context.Context, database *sql.DB, tracker *session.Tracker, input SavePromptInput) (*SavedPrompt, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, errors.NewInvalidRequest("prompt is required")
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	saved := SavedPrompt{
		ID:              id,
		Prompt:          input.Prompt,
		OptimizedPrompt: input.OptimizedPrompt,
		CreatedAt:       now,
		LastUsed:        now,
		Tags:            cleanTags(input.Tags),
	}

	err = db.UpdateJSON(ctx, database, db.PromptsKey(NormalizeOwner(input.Owner)), func(p *[]SavedPrompt) error {
		*p = append(*p, saved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tracker != nil {
		tracker.RecordSavedPrompt()
	}
	return &saved, nil
}

// ListPrompts returns owner's saved prompts in save order.
func ListPrompts(ctx context.Context, database *sql.DB, owner string) ([]SavedPrompt, error) {
	prompts, err := db.GetJSON[[]SavedPrompt](ctx, database, db.PromptsKey(NormalizeOwner(owner)))
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []SavedPrompt{}
	}
	return prompts, nil
}

// SearchPrompts returns saved prompts whose text or any tag contains query,
// case-insensitively. An empty query matches everything.
func SearchPrompts(ctx context.Context, database *sql.DB, owner, query string) ([]SavedPrompt, error) {
	prompts, err := ListPrompts(ctx, database, owner)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	return lo.Filter(prompts, func(p SavedPrompt, _ int) bool {
		if strings.Contains(strings.ToLower(p.Prompt), q) {
			return true
		}
		return lo.SomeBy(p.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), q)
		})
	}), nil
}

// TouchPrompt bumps the use count and last-used time of a saved prompt.
func TouchPrompt(ctx context.Context, database *sql.DB, owner, id string) error {
	return db.UpdateJSON(ctx, database, db.PromptsKey(NormalizeOwner(owner)), func(p *[]SavedPrompt) error {
		i := slices.IndexFunc(*p, func(s SavedPrompt) bool { return s.ID == id })
		if i < 0 {
			return errors.NewNotFound(id)
		}
		(*p)[i].UseCount++
		(*p)[i].LastUsed = time.Now().UnixMilli()
		return nil
	})
}

// DeletePrompt removes a saved prompt.
func DeletePrompt(ctx context.Context, database *sql.DB, owner, id string) error {
	return db.UpdateJSON(ctx, database, db.PromptsKey(NormalizeOwner(owner)), func(p *[]SavedPrompt) error {
		before := len(*p)
		*p = slices.DeleteFunc(*p, func(s SavedPrompt) bool { return s.ID == id })
		if len(*p) == before {
			return errors.NewNotFound(id)
		}
		return nil
	})
}

// findSavedByText returns the first saved prompt whose text equals prompt.
func findSavedByText(prompts []SavedPrompt, prompt string) (SavedPrompt, bool) {
	return lo.Find(prompts, func(s SavedPrompt) bool { return s.Prompt == prompt })
}
