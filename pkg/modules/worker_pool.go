package modules

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"esparse/pkg/ast"
	"esparse/pkg/parser"
)

// WorkerPool parses independent sources in parallel. Every job gets its own
// Parser; workers share nothing but the job and result channels. Results
// must be drained while jobs are submitted, a full result buffer blocks the
// workers.
type WorkerPool struct {
	numWorkers   int
	jobBuffer    int
	resultBuffer int
	options      parser.Options
	keepAST      bool
	logger       *zap.Logger

	jobQueue   chan *ParseJob
	resultChan chan *ParseResult

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      WorkerPoolStats
	statsMutex sync.RWMutex
}

// parseWorker is a single worker goroutine.
type parseWorker struct {
	id    int
	pool  *WorkerPool
	arena *ast.Arena
}

// NewWorkerPool creates a pool; a nil config means DefaultPoolConfig.
func NewWorkerPool(config *PoolConfig) *WorkerPool {
	if config == nil {
		config = DefaultPoolConfig()
	}
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	opts := config.Options
	if opts == nil {
		opts = parser.DefaultOptions()
		opts.SourceType = parser.Module
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		numWorkers:   numWorkers,
		jobBuffer:    config.JobBufferSize,
		resultBuffer: config.ResultBufferSize,
		options:      *opts,
		keepAST:      config.KeepAST,
		logger:       logger,
	}
}

// Start launches the workers. They stop when ctx is cancelled or the pool is
// shut down.
func (wp *WorkerPool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.started, 0, 1) {
		return errors.New("worker pool already started")
	}

	ctx, wp.cancel = context.WithCancel(ctx)
	wp.group, wp.ctx = errgroup.WithContext(ctx)

	wp.jobQueue = make(chan *ParseJob, wp.jobBuffer)
	wp.resultChan = make(chan *ParseResult, wp.resultBuffer)
	wp.stats = WorkerPoolStats{WorkerCount: wp.numWorkers}

	for i := 0; i < wp.numWorkers; i++ {
		w := &parseWorker{id: i, pool: wp}
		if !wp.keepAST {
			w.arena = ast.NewArena()
		}
		wp.group.Go(func() error {
			return w.run(wp.ctx)
		})
	}
	wp.logger.Debug("worker pool started", zap.Int("workers", wp.numWorkers))
	return nil
}

// Submit queues a job. It blocks while the job queue is full.
func (wp *WorkerPool) Submit(job *ParseJob) error {
	if atomic.LoadInt32(&wp.started) == 0 {
		return errors.New("worker pool not started")
	}
	if atomic.LoadInt32(&wp.stopped) == 1 {
		return errors.New("worker pool stopped")
	}
	if job == nil || job.Source == nil {
		return errors.New("job without source")
	}

	atomic.AddInt32(&wp.activeJobs, 1)
	select {
	case wp.jobQueue <- job:
		wp.statsMutex.Lock()
		wp.stats.TotalJobs++
		wp.statsMutex.Unlock()
		return nil
	case <-wp.ctx.Done():
		atomic.AddInt32(&wp.activeJobs, -1)
		return wp.ctx.Err()
	}
}

// Results returns the channel results are delivered on. It is closed by
// Shutdown.
func (wp *WorkerPool) Results() <-chan *ParseResult {
	return wp.resultChan
}

// Shutdown stops accepting jobs, waits for the queued ones and closes the
// result channel. When ctx expires first the workers are cancelled, queued
// jobs are dropped and the result channel is still closed.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	if atomic.LoadInt32(&wp.started) == 0 {
		return errors.New("worker pool not started")
	}
	if !atomic.CompareAndSwapInt32(&wp.stopped, 0, 1) {
		return errors.New("worker pool already stopped")
	}
	close(wp.jobQueue)

	done := make(chan error, 1)
	go func() {
		done <- wp.group.Wait()
	}()

	select {
	case err := <-done:
		wp.cancel()
		close(wp.resultChan)
		wp.logger.Debug("worker pool stopped", zap.Int("jobs", wp.Stats().TotalJobs))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-ctx.Done():
		wp.cancel()
		<-done
		close(wp.resultChan)
		wp.logger.Debug("worker pool cancelled", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// HasActiveJobs reports whether submitted jobs have not produced a result
// yet.
func (wp *WorkerPool) HasActiveJobs() bool {
	return atomic.LoadInt32(&wp.activeJobs) > 0
}

// Stats returns a snapshot of the pool statistics.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	wp.statsMutex.RLock()
	defer wp.statsMutex.RUnlock()

	stats := wp.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&wp.activeJobs))
	return stats
}

func (w *parseWorker) run(ctx context.Context) error {
	for {
		select {
		case job, ok := <-w.pool.jobQueue:
			if !ok {
				return nil
			}
			result := w.processJob(job)
			w.pool.record(result)
			atomic.AddInt32(&w.pool.activeJobs, -1)

			select {
			case w.pool.resultChan <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (wp *WorkerPool) record(result *ParseResult) {
	wp.statsMutex.Lock()
	defer wp.statsMutex.Unlock()

	if result.Error == nil {
		wp.stats.CompletedJobs++
	} else {
		wp.stats.FailedJobs++
	}
	wp.stats.TotalTime += result.ParseDuration
	wp.stats.AverageTime = wp.stats.TotalTime / time.Duration(wp.stats.CompletedJobs+wp.stats.FailedJobs)
}

// processJob parses one source and extracts its imports and exports.
func (w *parseWorker) processJob(job *ParseJob) *ParseResult {
	startTime := time.Now()
	result := &ParseResult{
		ModulePath: job.ModulePath,
		Source:     job.Source,
		WorkerID:   w.id,
		Timestamp:  startTime,
	}

	opts := w.pool.options
	if w.arena != nil {
		opts.Arena = w.arena
		defer w.arena.Reset()
	}
	program, err := parser.Parse(job.Source.Content, &opts)
	result.ParseDuration = time.Since(startTime)
	if err != nil {
		result.Error = err
		w.pool.logger.Debug("parse failed",
			zap.String("module", job.ModulePath),
			zap.Int("worker", w.id),
			zap.Error(err))
		return result
	}

	result.ImportSpecs = ExtractImports(program)
	result.ExportSpecs = ExtractExports(program)
	if w.pool.keepAST {
		result.Program = program
	}
	w.pool.logger.Debug("parsed module",
		zap.String("module", job.ModulePath),
		zap.Int("worker", w.id),
		zap.Int("imports", len(result.ImportSpecs)),
		zap.Duration("duration", result.ParseDuration))
	return result
}

// ParseAll parses every job with a fresh pool and returns the results in
// job order.
func ParseAll(ctx context.Context, config *PoolConfig, jobs []*ParseJob) ([]*ParseResult, error) {
	pool := NewWorkerPool(config)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	byPath := make(map[string][]int)
	for i, job := range jobs {
		byPath[job.ModulePath] = append(byPath[job.ModulePath], i)
	}

	results := make([]*ParseResult, len(jobs))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range pool.Results() {
			slots := byPath[r.ModulePath]
			if len(slots) == 0 {
				continue
			}
			results[slots[0]] = r
			byPath[r.ModulePath] = slots[1:]
		}
	}()

	var submitErr error
	for _, job := range jobs {
		if submitErr = pool.Submit(job); submitErr != nil {
			break
		}
	}
	shutdownErr := pool.Shutdown(ctx)
	<-collected
	switch {
	case submitErr != nil:
		return nil, submitErr
	case shutdownErr != nil:
		return nil, shutdownErr
	case ctx.Err() != nil:
		// Workers may have stopped before every job ran.
		return nil, ctx.Err()
	}
	return results, nil
}
