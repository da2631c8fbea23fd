package cron

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// options Scheduler 配置选项
type options struct {
	// Location 时区设置，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// Logger 自定义日志记录器
	Logger logging.Logger
	// EnableCronLogger 是否启用 cron 库的内部调度日志（默认 false）
	EnableCronLogger bool
}

// Option 配置 Scheduler
type Option func(*options)

// WithSeconds 启用秒级精度
func WithSeconds() Option {
	return func(o *options) { o.EnableSeconds = true }
}

// WithLocation 设置时区，例如 "Asia/Shanghai"
func WithLocation(location string) Option {
	return func(o *options) { o.Location = location }
}

// WithLogger 设置日志记录器
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.Logger = logger }
}

// EnableCronLogger 启用 cron 库的内部调度日志
func EnableCronLogger() Option {
	return func(o *options) { o.EnableCronLogger = true }
}

// job 已注册的任务
type job struct {
	name    string
	spec    string
	handler any
	names   []string
	id      cron.EntryID
}

// JobInfo 任务状态
type JobInfo struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

// Scheduler 定时任务调度器。
// 任务是可调用对象，每次触发时通过容器的 Inject 解析参数后执行。
type Scheduler struct {
	cron      *cron.Cron
	container *di.Container
	logger    logging.Logger

	mu   sync.RWMutex
	jobs map[string]*job
}

// NewScheduler 创建调度器
func NewScheduler(c *di.Container, opts ...Option) (*Scheduler, error) {
	if c == nil {
		return nil, fmt.Errorf("cron: container is required")
	}

	opt := &options{Location: "UTC"}
	for _, o := range opts {
		o(opt)
	}
	if opt.Logger == nil {
		opt.Logger = logging.Nop()
	}

	loc, err := time.LoadLocation(opt.Location)
	if err != nil {
		return nil, fmt.Errorf("cron: invalid location %q: %w", opt.Location, err)
	}

	cronOpts := []cron.Option{cron.WithLocation(loc)}

	// 只在启用时添加 cron 库的日志记录器
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(opt.Logger)))
	}

	cronOpts = append(cronOpts, cron.WithChain(
		cron.Recover(newCronLogger(opt.Logger)),
	))

	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &Scheduler{
		cron:      cron.New(cronOpts...),
		container: c,
		logger:    opt.Logger,
		jobs:      make(map[string]*job),
	}, nil
}

// AddJob 添加定时任务。
// spec: cron 表达式，如 "*/5 * * * *" 或 "@every 1m"，启用秒级精度时多一个秒字段
// name: 任务名称（用于管理和日志），不能重复
// handler: 函数、*di.Callable 或带 Invoke 方法的对象，names 按位置命名其标量参数
func (s *Scheduler) AddJob(spec, name string, handler any, names ...string) error {
	if name == "" {
		return fmt.Errorf("cron: job name is required")
	}
	if !isCallable(handler) {
		return fmt.Errorf("cron: job '%s' handler %T is not callable", name, handler)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("cron: job '%s' already registered", name)
	}

	j := &job{name: name, spec: spec, handler: handler, names: names}
	entryID, err := s.cron.AddFunc(spec, func() { _ = s.run(j) })
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", name, err)
	}
	j.id = entryID
	s.jobs[name] = j

	s.logger.Info(fmt.Sprintf("Cron job '%s' registered with spec '%s'", name, spec))
	return nil
}

// RemoveJob 移除定时任务
func (s *Scheduler) RemoveJob(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.jobs[name]
	if !exists {
		return false
	}
	s.cron.Remove(j.id)
	delete(s.jobs, name)
	s.logger.Info(fmt.Sprintf("Cron job '%s' removed", name))
	return true
}

// RunJob 立即同步执行一次任务，返回任务的错误
func (s *Scheduler) RunJob(name string) error {
	s.mu.RLock()
	j, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("cron: job '%s' not found", name)
	}
	return s.run(j)
}

// Jobs 返回按名称排序的任务列表
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.id)
		infos = append(infos, JobInfo{Name: j.name, Spec: j.spec, Next: entry.Next, Prev: entry.Prev})
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Name < infos[b].Name })
	return infos
}

// Start 启动调度，不阻塞
func (s *Scheduler) Start() {
	s.mu.RLock()
	count := len(s.jobs)
	s.mu.RUnlock()

	s.logger.Info(fmt.Sprintf("Cron scheduler starting with %d jobs", count))
	s.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束，或直到 ctx 超时
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Cron scheduler stopping")

	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run 通过容器注入参数并执行任务
func (s *Scheduler) run(j *job) (err error) {
	logger := s.logger.WithFields(logging.Field{Key: "job", Value: j.name})
	logger.Debug("Cron job started")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cron: job '%s' panicked: %v", j.name, r)
		}
		if err != nil {
			logger.Error("Cron job failed", logging.Field{Key: "error", Value: err})
			return
		}
		logger.Debug("Cron job completed")
	}()

	_, err = s.container.Inject(j.handler, j.names...)
	return err
}

func isCallable(handler any) bool {
	switch h := handler.(type) {
	case nil:
		return false
	case *di.Callable:
		return h != nil && h.Call != nil
	}
	v := reflect.ValueOf(handler)
	if v.Kind() == reflect.Func {
		return !v.IsNil()
	}
	return v.MethodByName("Invoke").IsValid()
}
