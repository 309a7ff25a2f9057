package app

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ip-tracker/internal/api"
	"ip-tracker/internal/config"
	"ip-tracker/internal/logger"
	"ip-tracker/internal/middleware"
	"ip-tracker/internal/migrate"
	"ip-tracker/internal/query"
	"ip-tracker/internal/store"
	"ip-tracker/internal/tracker"
	"ip-tracker/internal/utils"
)

// Run：启动 HTTP 服务直到 ctx 取消，然后优雅关闭
func Run(ctx context.Context, cfg config.Config) error {
	l := logger.L()

	var st *store.Store
	if cfg.StatsEnabled {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			return err
		}
		l.Info("db_ping_ok")
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			return err
		}
		st = store.AttachDB(db)
	} else {
		l.Info("stats_disabled")
	}

	var rc *redis.Client
	if cfg.RedisEnabled {
		rc = utils.OpenRedisFromEnv()
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			// 缓存不可用时查询仍可进行，只记录错误
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	} else {
		l.Info("redis_disabled")
	}

	svcs, err := BuildLookup(cfg, rc)
	if err != nil {
		return err
	}
	defer svcs.Close()

	classify := query.NewClassifier(cfg.StrictDomain)
	tr := tracker.New(svcs.Lookup, tracker.Options{
		Classify: classify,
		Timeout:  cfg.LookupTimeout,
		OnChange: func(s tracker.Snapshot) {
			l.Info("tracker_changed", "token", s.Token, "kind", s.Query.Kind.String(), "ip", s.Record.IP)
		},
	})
	_ = tr.Init(ctx, cfg.DefaultQuery)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      Handler(cfg, api.Deps{Lookup: svcs.Lookup, Tracker: tr, Stats: st, Classify: classify}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2*cfg.LookupTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("listening", "addr", cfg.Addr, "api_base", cfg.APIBase)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		tr.Wait()
		return err
	})
	if err := g.Wait(); err != nil {
		l.Error("server_stopped", "err", err)
		return err
	}
	l.Info("server_stopped")
	return nil
}

// Handler：API 挂载到前缀，其余路径交给静态前端
func Handler(cfg config.Config, deps api.Deps) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(deps)))

	// 向前端暴露 API 基础路径，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + cfg.APIBase + "'\n"))
	})
	ui := cfg.UIDist
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	mux.Handle("/", http.FileServer(http.Dir(ui)))

	var h http.Handler = mux
	if cfg.RateLimitEnabled {
		h = middleware.RateLimit(cfg.RateLimitQPS)(h)
	}
	return logger.AccessMiddleware(logger.L())(h)
}
