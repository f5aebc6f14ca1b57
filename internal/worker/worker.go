// Package worker runs background jobs in response to published events.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/jobs"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

// Subscriber is the event source a worker consumes.
type Subscriber interface {
	Subscribe(buffer int, match events.Match) *events.Subscription
}

// Config holds worker configuration
type Config struct {
	// Name identifies this worker instance in logs
	Name string

	// Concurrency is the maximum number of jobs to run at once
	Concurrency int

	// Buffer is the subscription channel size
	Buffer int

	// JobTimeout bounds one job including its retries
	JobTimeout time.Duration

	// MaxAttempts is how often a retryable failure is tried
	MaxAttempts int

	// RetryBackoff is the wait before the second attempt; it doubles after each failure
	RetryBackoff time.Duration
}

type route struct {
	name    string
	handler jobs.Handler
	match   events.Match
}

// Worker dispatches events to job handlers
type Worker struct {
	config Config
	source Subscriber
	routes []route
	logger *slog.Logger
}

// New creates a worker reading from source
func New(source Subscriber, config Config, logger *slog.Logger) *Worker {
	if config.Name == "" {
		config.Name = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}
	if config.Buffer <= 0 {
		config.Buffer = 256
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config: config,
		source: source,
		logger: logger,
	}
}

// Handle registers h for the given event types. With no types, h receives
// every event. Register all handlers before calling Start.
func (w *Worker) Handle(name string, h jobs.Handler, types ...events.Type) {
	w.routes = append(w.routes, route{name: name, handler: h, match: events.MatchTypes(types...)})
}

// Start processes events until ctx is cancelled or the source closes the
// subscription. In-flight jobs are allowed to finish before it returns.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker", w.config.Name,
		"handlers", len(w.routes),
		"concurrency", w.config.Concurrency,
	)

	sub := w.source.Subscribe(w.config.Buffer, w.matches)
	defer sub.Close()

	sem := make(chan struct{}, w.config.Concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker", w.config.Name)
			return nil

		case e, ok := <-sub.C():
			if !ok {
				w.logger.Info("event source closed", "worker", w.config.Name)
				return nil
			}

			for _, rt := range w.routes {
				if !rt.match(e) {
					continue
				}
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					return nil
				}
				wg.Add(1)
				go func(rt route) {
					defer wg.Done()
					defer func() { <-sem }()
					w.run(ctx, rt, e)
				}(rt)
			}
		}
	}
}

func (w *Worker) matches(e events.Event) bool {
	for _, rt := range w.routes {
		if rt.match(e) {
			return true
		}
	}
	return false
}

// run executes one job. The job outlives the worker's context so a shutdown
// does not cut a send in half; JobTimeout still bounds it.
func (w *Worker) run(ctx context.Context, rt route, e events.Event) {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.JobTimeout)
	defer cancel()

	logger := w.logger.With("job", rt.name, "event_type", e.Type, "event_id", e.ID)
	start := time.Now()

	err := w.attempt(jobCtx, rt, e, logger)

	if telemetry.Business != nil {
		telemetry.Business.JobDuration.WithLabelValues(rt.name).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		logger.Error("job failed", "error", err)
		if telemetry.Business != nil {
			telemetry.Business.JobsFailed.WithLabelValues(rt.name).Inc()
		}
		telemetry.CaptureError(err, map[string]interface{}{
			"job":        rt.name,
			"event_type": string(e.Type),
			"event_id":   e.ID.String(),
		})
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.JobsProcessed.WithLabelValues(rt.name).Inc()
	}
	logger.Debug("job completed", "duration", time.Since(start))
}

func (w *Worker) attempt(ctx context.Context, rt route, e events.Event, logger *slog.Logger) (err error) {
	backoff := w.config.RetryBackoff

	for n := 1; ; n++ {
		err = w.invoke(ctx, rt.handler, e)
		if err == nil || !domain.IsRetryable(err) || n >= w.config.MaxAttempts {
			return err
		}

		logger.Warn("job attempt failed, retrying", "attempt", n, "backoff", backoff, "error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (gave up after %d attempts: %v)", err, n, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
}

// invoke turns a handler panic into an error so one bad event cannot take
// the process down.
func (w *Worker) invoke(ctx context.Context, h jobs.Handler, e events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}
