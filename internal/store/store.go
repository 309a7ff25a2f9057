// 包 store：PostgreSQL 查询统计读写；不保存定位记录本身
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/query"
)

type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// kindColumn：列名来自固定集合，不拼接用户输入
func kindColumn(k query.Kind) string {
	switch k {
	case query.IPv4:
		return "ipv4_queries"
	case query.Domain:
		return "domain_queries"
	}
	return "invalid_queries"
}

// IncrStats：递增累计、分类与当日计数，单事务提交
func (s *Store) IncrStats(ctx context.Context, k query.Kind) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("stats begin: %w", err)
	}
	defer tx.Rollback()

	col := kindColumn(k)
	if _, err := tx.ExecContext(ctx, "UPDATE _track_stats_total SET total_queries=total_queries+1, "+col+"="+col+"+1 WHERE id=1"); err != nil {
		return fmt.Errorf("stats total: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO _track_stats_daily(day, queries) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET queries=_track_stats_daily.queries+1"); err != nil {
		return fmt.Errorf("stats daily: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("stats commit: %w", err)
	}
	logger.L().Debug("stats_incr", "kind", k.String())
	return nil
}

type Totals struct {
	Total   int64 `json:"total"`
	Today   int64 `json:"today"`
	IPv4    int64 `json:"ipv4"`
	Domain  int64 `json:"domain"`
	Invalid int64 `json:"invalid"`
}

func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_queries, ipv4_queries, domain_queries, invalid_queries FROM _track_stats_total WHERE id=1")
	if err := row.Scan(&t.Total, &t.IPv4, &t.Domain, &t.Invalid); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("stats totals: %w", err)
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT queries FROM _track_stats_daily WHERE day=current_date")
	if err := row2.Scan(&t.Today); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("stats today: %w", err)
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
