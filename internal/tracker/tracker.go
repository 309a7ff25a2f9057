// 包 tracker：维护“当前定位记录”槽位，异步查询结果按提交顺序生效
package tracker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
	"ip-tracker/internal/query"
)

var ErrSuperseded = errors.New("tracker: superseded by a newer submission")

// Ticket：一次提交；Token 单调递增
type Ticket struct {
	Token uint64            `json:"token"`
	Query query.LookupQuery `json:"query"`
}

// Snapshot：槽位内容，整体替换，不做部分修改
type Snapshot struct {
	Token     uint64                 `json:"token"`
	Query     query.LookupQuery      `json:"query"`
	Record    *lookup.LocationRecord `json:"record"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

type Options struct {
	Classify query.Classifier
	Timeout  time.Duration
	// OnChange 在槽位被替换后调用，不持有内部锁
	OnChange func(Snapshot)
}

type Tracker struct {
	svc      lookup.Service
	classify query.Classifier
	timeout  time.Duration
	onChange func(Snapshot)

	latest  atomic.Uint64
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	wg      sync.WaitGroup
}

func New(svc lookup.Service, opts Options) *Tracker {
	t := &Tracker{
		svc:      svc,
		classify: opts.Classify,
		timeout:  opts.Timeout,
		onChange: opts.OnChange,
	}
	if t.classify == nil {
		t.classify = query.Classify
	}
	if t.timeout <= 0 {
		t.timeout = 10 * time.Second
	}
	return t
}

// Submit：分类输入并签发新 Token，之前签发的 Token 随即过期
func (t *Tracker) Submit(raw string) Ticket {
	return t.SubmitQuery(t.classify(raw))
}

func (t *Tracker) SubmitQuery(q query.LookupQuery) Ticket {
	metrics.ClassifyTotal.WithLabelValues(q.Kind.String()).Inc()
	return Ticket{Token: t.latest.Add(1), Query: q}
}

// Apply：仅当 Token 仍是最新提交时写入槽位；rec 为 nil 时不写入
func (t *Tracker) Apply(tk Ticket, rec *lookup.LocationRecord) bool {
	if rec == nil {
		return false
	}
	t.mu.Lock()
	if tk.Token != t.latest.Load() {
		t.mu.Unlock()
		metrics.TrackerStaleTotal.Inc()
		logger.L().Debug("tracker_apply_stale", "token", tk.Token, "latest", t.latest.Load(), "value", tk.Query.Value)
		return false
	}
	snap := &Snapshot{Token: tk.Token, Query: tk.Query, Record: rec, UpdatedAt: time.Now()}
	t.current.Store(snap)
	t.mu.Unlock()

	metrics.TrackerAppliedTotal.Inc()
	logger.L().Debug("tracker_apply", "token", tk.Token, "kind", tk.Query.Kind.String(), "ip", rec.IP)
	if t.onChange != nil {
		t.onChange(*snap)
	}
	return true
}

// Resolve：查询并尝试写入；失败时保留之前的槽位内容
// 返回：查询错误原样返回；结果过期返回 ErrSuperseded
func (t *Tracker) Resolve(ctx context.Context, tk Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	rec, err := t.svc.Lookup(ctx, tk.Query)
	if err == nil && rec == nil {
		err = lookup.ErrRequestFailed
	}
	if err != nil {
		if errors.Is(err, lookup.ErrRejected) {
			logger.L().Info("tracker_lookup_rejected", "token", tk.Token, "kind", tk.Query.Kind.String(), "value", tk.Query.Value, "err", err)
		} else {
			logger.L().Error("tracker_lookup_failed", "token", tk.Token, "kind", tk.Query.Kind.String(), "value", tk.Query.Value, "err", err)
		}
		return err
	}
	if !t.Apply(tk, rec) {
		return ErrSuperseded
	}
	return nil
}

// Track：同步提交并查询
func (t *Tracker) Track(ctx context.Context, raw string) (Ticket, error) {
	tk := t.Submit(raw)
	return tk, t.Resolve(ctx, tk)
}

// Go：提交后在后台查询，不等待结果；ctx 的取消不会中断后台查询
func (t *Tracker) Go(ctx context.Context, tk Ticket) {
	ctx = context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		_ = t.Resolve(ctx, tk)
	}()
}

// Init：页面初次加载时的一次性查询
func (t *Tracker) Init(ctx context.Context, defaultQuery string) error {
	_, err := t.Track(ctx, defaultQuery)
	if err != nil {
		logger.L().Info("tracker_init_no_data", "err", err)
	}
	return err
}

// Current：当前槽位快照；尚无数据时返回 nil
func (t *Tracker) Current() *Snapshot {
	s := t.current.Load()
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Latest：最近签发的 Token
func (t *Tracker) Latest() uint64 { return t.latest.Load() }

// Wait：等待所有后台查询结束
func (t *Tracker) Wait() { t.wg.Wait() }
