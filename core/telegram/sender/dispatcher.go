package sender

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
}

type job struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
// It is used for fire-and-report notifications where at-most-once delivery
// is acceptable; publishing to channels stays synchronous at the call site.
type Dispatcher struct {
	opts Options
	jobs chan job
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
		stop: make(chan struct{}),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue schedules the provided function for asynchronous execution.
// The run closure must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case d.jobs <- job{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops workers and waits for them to finish processing queued jobs.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.stop)
		close(d.jobs)
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	attempts := d.opts.MaxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := j.run()
		if err == nil {
			logger.Debug(ctx, "tg.sender", "send.success",
				slog.String("action", j.action),
				slog.Int("attempt", attempt),
				slog.Duration("elapsed", logger.Took(start)),
			)
			return
		}
		lastErr = err
		if !shouldRetry(err) || attempt == attempts {
			break
		}
		time.Sleep(d.opts.RetryBackoff * time.Duration(attempt))
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail",
		slog.String("action", j.action),
		slog.String("err", logger.SanitizeLimit(lastErr.Error(), 256)),
		slog.Int("attempts", attempts),
		slog.Duration("elapsed", logger.Took(start)),
	)
}

// shouldRetry reports whether an outbound error is worth retrying.
// Transient network failures and Telegram flood waits qualify; API
// rejections do not.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return true
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || urlErr.Temporary()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
