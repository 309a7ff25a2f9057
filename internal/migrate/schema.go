package migrate

import (
	"context"
	"database/sql"

	"ip-tracker/internal/logger"
)

// EnsureSchema：首次运行创建统计表；IF NOT EXISTS 保证可重复执行
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _track_stats_total (
            id INT PRIMARY KEY,
            total_queries BIGINT NOT NULL DEFAULT 0,
            ipv4_queries BIGINT NOT NULL DEFAULT 0,
            domain_queries BIGINT NOT NULL DEFAULT 0,
            invalid_queries BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _track_stats_daily (
            day DATE PRIMARY KEY,
            queries BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _track_stats_total(id) VALUES(1) ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
