package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
)

// sqlCache holds the queries shared by the SQLite and MySQL caches.
// Timestamps are stored as Unix milliseconds so expiry comparisons do not
// depend on either engine's date handling.
type sqlCache struct {
	db        *sql.DB
	logger    *zap.Logger
	upsertSQL string
	stopCh    chan struct{}
	once      sync.Once
	name      string
}

const (
	selectEntrySQL = `SELECT label, confidence, degraded, created_at, expires_at
		FROM prediction_cache
		WHERE cache_key = ? AND expires_at > ?`
	deleteEntrySQL   = `DELETE FROM prediction_cache WHERE cache_key = ?`
	deleteExpiredSQL = `DELETE FROM prediction_cache WHERE expires_at <= ?`
)

func newSQLCache(db *sql.DB, logger *zap.Logger, cleanupFreq time.Duration, upsertSQL, name string) *sqlCache {
	c := &sqlCache{
		db:        db,
		logger:    logger,
		upsertSQL: upsertSQL,
		stopCh:    make(chan struct{}),
		name:      name,
	}
	if cleanupFreq > 0 {
		go runCleanup(c, cleanupFreq, c.stopCh, logger)
	}
	return c
}

// Get retrieves a live entry
func (c *sqlCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var (
		label                int
		entry                core.CacheEntry
		createdAt, expiresAt int64
	)
	err := c.db.QueryRowContext(ctx, selectEntrySQL, key, time.Now().UnixMilli()).
		Scan(&label, &entry.Confidence, &entry.Degraded, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry.Key = key
	entry.Label, err = core.LabelFromClass(label)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	entry.CreatedAt = time.UnixMilli(createdAt)
	entry.ExpiresAt = time.UnixMilli(expiresAt)
	return &entry, nil
}

// Set stores or replaces a cache entry
func (c *sqlCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, c.upsertSQL,
		entry.Key,
		int(entry.Label),
		entry.Confidence,
		entry.Degraded,
		entry.CreatedAt.UnixMilli(),
		entry.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *sqlCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, deleteEntrySQL, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *sqlCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, deleteExpiredSQL, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *sqlCache) Stop() {
	c.once.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.String("backend", c.name), zap.Error(err))
		}
	})
}
