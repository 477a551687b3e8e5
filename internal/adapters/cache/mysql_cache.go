package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	*sqlCache
}

const mysqlUpsertSQL = `INSERT INTO prediction_cache
	(cache_key, label, confidence, degraded, created_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		label = VALUES(label),
		confidence = VALUES(confidence),
		degraded = VALUES(degraded),
		created_at = VALUES(created_at),
		expires_at = VALUES(expires_at)`

const mysqlSchemaSQL = `
	CREATE TABLE IF NOT EXISTS prediction_cache (
		cache_key VARCHAR(160) PRIMARY KEY,
		label TINYINT NOT NULL,
		confidence DOUBLE NOT NULL,
		degraded BOOLEAN NOT NULL,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL,
		INDEX idx_expires_at (expires_at)
	)`

// NewMySQLCache connects to MySQL and ensures the cache table exists
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	c, err := NewMySQLCacheWithDB(db, logger, cleanupFreq)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewMySQLCacheWithDB uses an existing connection pool
func NewMySQLCacheWithDB(db *sql.DB, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	if _, err := db.Exec(mysqlSchemaSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &MySQLCache{newSQLCache(db, logger, cleanupFreq, mysqlUpsertSQL, "mysql")}, nil
}
