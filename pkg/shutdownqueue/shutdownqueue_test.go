package shutdownqueue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// resetQueue clears the global queue between tests.
func resetQueue(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()

		tasks = nil
		closed = false

		mu.Unlock()
	})
}

//nolint:paralleltest
func TestAddNilTaskIsNoop(t *testing.T) {
	resetQueue(t)

	Add(nil)

	err := Shutdown(t.Context())
	if err != nil {
		t.Fatalf("expected nil after adding nil task; got %v", err)
	}
}

//nolint:paralleltest
func TestLIFOOrder(t *testing.T) {
	resetQueue(t)

	var (
		orderMu sync.Mutex
		order   []int
	)

	makeTask := func(n int) Task {
		return func(ctx context.Context) error {
			orderMu.Lock()
			order = append(order, n)
			orderMu.Unlock()

			return nil
		}
	}

	for i := 1; i <= 3; i++ {
		Add(makeTask(i))
	}

	err := Shutdown(t.Context())
	if err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order len mismatch: got %v, want %v", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, order, want)
		}
	}
}

//nolint:paralleltest
func TestPanicRecoveredAndDrainContinues(t *testing.T) {
	resetQueue(t)

	var ranAfterPanic atomic.Bool

	Add(func(ctx context.Context) error { return nil })
	Add(func(ctx context.Context) error { panic("boom") })
	Add(func(ctx context.Context) error {
		ranAfterPanic.Store(true)
		return nil
	})

	shErr := Shutdown(t.Context())
	if shErr == nil {
		t.Fatalf("expected aggregated error with panic; got nil")
	}

	if !strings.Contains(shErr.Error(), "panic in shutdown task: boom") {
		t.Fatalf("expected panic message in error; got: %q", shErr.Error())
	}

	if !ranAfterPanic.Load() {
		t.Fatalf("expected tasks after the panic to still run")
	}
}

//nolint:paralleltest
func TestEarlyCancelSkipsRemaining(t *testing.T) {
	resetQueue(t)

	errA := errors.New("taskA")

	var ranB atomic.Bool

	gateReady := make(chan struct{})
	gate := func(ctx context.Context) error {
		close(gateReady)
		<-ctx.Done()

		return nil
	}

	Add(func(ctx context.Context) error { return errA })
	Add(func(ctx context.Context) error {
		ranB.Store(true)
		return nil
	})
	Add(gate) // LIFO: gate, B, A

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)

	go func() {
		errCh <- Shutdown(ctx)
	}()

	<-gateReady
	cancel()

	shErr := <-errCh
	if shErr == nil {
		t.Fatalf("expected error due to context cancel; got nil")
	}

	if !errors.Is(shErr, context.Canceled) {
		t.Fatalf("expected errors.Is(err, context.Canceled); got: %v", shErr)
	}

	if ranB.Load() {
		t.Fatalf("expected taskB not to run after cancel")
	}

	if errors.Is(shErr, errA) {
		t.Fatalf("did not expect joined error to include taskA")
	}
}

//nolint:paralleltest
func TestIdempotentAndRunsOnce(t *testing.T) {
	resetQueue(t)

	var count atomic.Int32

	Add(func(ctx context.Context) error {
		count.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := Shutdown(ctx)
	if err != nil {
		t.Fatalf("Shutdown #1 error: %v", err)
	}

	err = Shutdown(ctx)
	if err != nil {
		t.Fatalf("Shutdown #2 expected nil; got %v", err)
	}

	if got := count.Load(); got != 1 {
		t.Fatalf("expected count=1; got %d", got)
	}
}

//nolint:paralleltest
func TestTaskErrorsAreJoined(t *testing.T) {
	resetQueue(t)

	err1 := errors.New("alpha")
	err2 := errors.New("beta")

	Add(func(ctx context.Context) error { return err1 })
	Add(func(ctx context.Context) error { return err2 })

	shErr := Shutdown(t.Context())
	if shErr == nil {
		t.Fatalf("expected joined error; got nil")
	}

	if !errors.Is(shErr, err1) || !errors.Is(shErr, err2) {
		t.Fatalf("expected joined error to contain both; got: %v", shErr)
	}
}
