package db

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/hpungsan/erde/internal/errors"
)

// Blob keys. Per-owner keys take a normalized owner suffix.
const (
	KeyUsers         = "auth/users"
	KeyHistoryPrefix = "history/"
	KeyPromptsPrefix = "prompts/"
)

// HistoryKey returns the history blob key for owner.
func HistoryKey(owner string) string { return KeyHistoryPrefix + owner }

// PromptsKey returns the saved prompts blob key for owner.
func PromptsKey(owner string) string { return KeyPromptsPrefix + owner }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetBlob returns the raw value stored at key, or NOT_FOUND.
func GetBlob(ctx context.Context, db *sql.DB, key string) ([]byte, error) {
	value, ok, err := getBlob(ctx, db, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNotFound(key)
	}
	return value, nil
}

// PutBlob stores value at key, replacing any existing value.
func PutBlob(ctx context.Context, db *sql.DB, key string, value []byte) error {
	return putBlob(ctx, db, key, value)
}

// DeleteBlob removes key. Missing keys are not an error.
func DeleteBlob(ctx context.Context, db *sql.DB, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// UpdateBlob runs fn over the current value of key inside one immediate
// transaction and stores what it returns. exists is false when the key is
// absent. An error from fn aborts without writing and is returned as-is.
func UpdateBlob(ctx context.Context, db *sql.DB, key string, fn func(current []byte, exists bool) ([]byte, error)) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	current, exists, err := getBlob(ctx, tx, key)
	if err != nil {
		return err
	}

	next, err := fn(current, exists)
	if err != nil {
		return err
	}

	if err := putBlob(ctx, tx, key, next); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetJSON decodes the JSON value at key into a T. A missing key yields the
// zero T.
func GetJSON[T any](ctx context.Context, db *sql.DB, key string) (T, error) {
	var out T
	value, ok, err := getBlob(ctx, db, key)
	if err != nil || !ok {
		return out, err
	}
	if err := json.Unmarshal(value, &out); err != nil {
		return out, errors.NewInternal(err)
	}
	return out, nil
}

// UpdateJSON decodes the value at key, lets fn modify it and writes it back
// atomically. A missing key starts from the zero T.
func UpdateJSON[T any](ctx context.Context, db *sql.DB, key string, fn func(*T) error) error {
	return UpdateBlob(ctx, db, key, func(current []byte, exists bool) ([]byte, error) {
		var v T
		if exists {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		return data, nil
	})
}

func getBlob(ctx context.Context, q querier, key string) ([]byte, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	return []byte(value), true, nil
}

func putBlob(ctx context.Context, q querier, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().Unix())
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
