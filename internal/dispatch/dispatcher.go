package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/metrics"
	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.Dispatcher = (*Dispatcher)(nil)

// Config controls the worker pool.
type Config struct {
	Workers     int
	BufferSize  int
	TaskTimeout time.Duration
}

type job struct {
	name string
	task model.Task
}

// Dispatcher runs tasks on a fixed pool of workers. A full buffer drops the
// task instead of blocking the caller.
type Dispatcher struct {
	cfg       Config
	log       *logger.Logger
	ch        chan job
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closeOnce sync.Once

	// mu orders enqueues before Close so nothing lands after the drain.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(cfg Config, log *logger.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	d := &Dispatcher{
		cfg:  cfg,
		log:  log,
		ch:   make(chan job, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.run()
	}

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case j := <-d.ch:
			d.execute(j)
		case <-d.done:
			for {
				select {
				case j := <-d.ch:
					d.execute(j)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) execute(j job) {
	ctx := context.Background()
	if d.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.TaskTimeout)
		defer cancel()
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return j.task(ctx)
	}()
	if err != nil {
		metrics.DispatchTasks.WithLabelValues(j.name, metrics.ResultFailed).Inc()
		d.log.Error("background task failed", "task", j.name, "error", err)
		return
	}
	metrics.DispatchTasks.WithLabelValues(j.name, metrics.ResultOK).Inc()
}

// Dispatch enqueues a task. It never blocks.
func (d *Dispatcher) Dispatch(name string, task model.Task) {
	if d == nil || task == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.ch <- job{name: name, task: task}:
	default:
		d.dropped.Add(1)
		metrics.DispatchTasks.WithLabelValues(name, metrics.ResultDropped).Inc()
		d.log.Warn("background task dropped, buffer full", "task", name)
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.done)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
