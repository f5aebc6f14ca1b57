package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/jobs"
)

func startWorker(t *testing.T, w *Worker) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()
	return cancelFn, errc
}

// waitForSubscriber blocks until the worker has subscribed to bus.
func waitForSubscriber(t *testing.T, bus *events.Bus, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return bus.Subscribers() == n }, time.Second, 5*time.Millisecond)
}

func signIn(isNew bool) events.Event {
	return events.NewUserSignedIn(&domain.User{ID: uuid.New(), Email: "a@b.test"}, isNew)
}

func TestWorker_RoutesByEventType(t *testing.T) {
	bus := events.NewBus(nil)
	defer bus.Close()

	var signIns, all atomic.Int32
	w := New(bus, Config{Name: "test"}, nil)
	w.Handle("signins", jobs.HandlerFunc(func(context.Context, events.Event) error {
		signIns.Add(1)
		return nil
	}), events.TypeUserSignedIn)
	w.Handle("all", jobs.HandlerFunc(func(context.Context, events.Event) error {
		all.Add(1)
		return nil
	}))

	cancel, done := startWorker(t, w)
	waitForSubscriber(t, bus, 1)

	bus.Publish(context.Background(), signIn(true))
	bus.Publish(context.Background(), events.NewCartUpdated(&domain.Cart{UserID: uuid.New()}))

	require.Eventually(t, func() bool { return all.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), signIns.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestWorker_RetriesRetryableErrors(t *testing.T) {
	bus := events.NewBus(nil)
	defer bus.Close()

	var calls atomic.Int32
	w := New(bus, Config{MaxAttempts: 3, RetryBackoff: time.Millisecond}, nil)
	w.Handle("flaky", jobs.HandlerFunc(func(context.Context, events.Event) error {
		if calls.Add(1) < 3 {
			return domain.Unavailable(errors.New("smtp down"), "test")
		}
		return nil
	}))

	cancel, done := startWorker(t, w)
	waitForSubscriber(t, bus, 1)
	bus.Publish(context.Background(), signIn(false))

	require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorker_DoesNotRetryPermanentErrors(t *testing.T) {
	bus := events.NewBus(nil)
	defer bus.Close()

	var calls atomic.Int32
	w := New(bus, Config{MaxAttempts: 5, RetryBackoff: time.Millisecond}, nil)
	w.Handle("broken", jobs.HandlerFunc(func(context.Context, events.Event) error {
		calls.Add(1)
		return domain.ErrUserNotFound
	}))
	w.Handle("panics", jobs.HandlerFunc(func(context.Context, events.Event) error {
		calls.Add(1)
		panic("boom")
	}))

	cancel, done := startWorker(t, w)
	waitForSubscriber(t, bus, 1)
	bus.Publish(context.Background(), signIn(false))

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestWorker_DrainsInFlightJobsOnShutdown(t *testing.T) {
	bus := events.NewBus(nil)
	defer bus.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	var once sync.Once

	w := New(bus, Config{}, nil)
	w.Handle("slow", jobs.HandlerFunc(func(ctx context.Context, _ events.Event) error {
		once.Do(func() { close(started) })
		<-release
		// the job context is detached from the worker's
		if ctx.Err() == nil {
			finished.Store(true)
		}
		return nil
	}))

	cancel, done := startWorker(t, w)
	waitForSubscriber(t, bus, 1)
	bus.Publish(context.Background(), signIn(false))
	<-started

	cancel()
	select {
	case <-done:
		t.Fatal("Start returned before the in-flight job finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	assert.NoError(t, <-done)
	assert.True(t, finished.Load())
}

func TestWorker_StopsWhenSourceCloses(t *testing.T) {
	bus := events.NewBus(nil)
	w := New(bus, Config{}, nil)
	w.Handle("noop", jobs.HandlerFunc(func(context.Context, events.Event) error { return nil }))

	_, done := startWorker(t, w)
	waitForSubscriber(t, bus, 1)
	bus.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after the bus closed")
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(events.NewBus(nil), Config{}, nil)
	assert.NotEmpty(t, w.config.Name)
	assert.Equal(t, 5, w.config.Concurrency)
	assert.Equal(t, 3, w.config.MaxAttempts)
	assert.Equal(t, 30*time.Second, w.config.JobTimeout)
}
