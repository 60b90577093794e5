package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	executed := false
	if !pool.Submit(func() { executed = true }) {
		t.Error("Task submission failed")
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait returned %v", err)
	}
	if !executed {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolZeroWorkers(t *testing.T) {
	pool := newPool(t, 0)
	var ran atomic.Bool
	pool.Submit(func() { ran.Store(true) })
	pool.Close()
	if !ran.Load() {
		t.Error("Pool with zero workers should fall back to one worker")
	}
}

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(MaxWorkers + 1)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing the pool while
// submitting tasks doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(100 * time.Microsecond)
					})
				}
			}()
		}

		time.Sleep(time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should fail after Close")
	}
}

func TestWorkerPoolMultipleClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()
	pool.Close()
	if err := pool.Wait(); err != nil {
		t.Errorf("Wait after Close returned %v", err)
	}
}

func TestWorkerPoolWithPanic(t *testing.T) {
	pool := newPool(t, 2)

	var after atomic.Bool
	pool.Submit(func() { panic("boom") })
	pool.Submit(func() { after.Store(true) })

	err := pool.Wait()
	if !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("Expected ErrTaskPanic, got %v", err)
	}
	if !after.Load() {
		t.Error("Worker should keep running after a task panic")
	}
}

func TestForEach(t *testing.T) {
	out := make([]int, 50)
	err := ForEach(context.Background(), 4, len(out), func(i int) {
		out[i] = i * i
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestForEach_Empty(t *testing.T) {
	called := false
	if err := ForEach(context.Background(), 4, 0, func(int) { called = true }); err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if called {
		t.Error("fn should not run for n == 0")
	}
}

func TestForEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEach(ctx, 2, 10, func(int) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func BenchmarkForEach(b *testing.B) {
	out := make([]float64, 1024)
	for i := 0; i < b.N; i++ {
		_ = ForEach(context.Background(), 8, len(out), func(j int) {
			out[j] = float64(j) * 1.5
		})
	}
}
