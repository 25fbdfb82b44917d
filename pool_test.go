package mdforge

import (
	"runtime"
	"testing"
)

func TestServicePool(t *testing.T) {
	t.Run("services created lazily", func(t *testing.T) {
		pool := NewServicePool(2, withRenderer(&fakeRenderer{}))
		defer pool.Close()

		if pool.created != 0 {
			t.Errorf("created = %d at construction, want 0", pool.created)
		}

		svc := pool.Acquire()
		if pool.created != 1 {
			t.Errorf("created = %d after one acquire, want 1", pool.created)
		}
		pool.Release(svc)
	})

	t.Run("released service is reused", func(t *testing.T) {
		pool := NewServicePool(2, withRenderer(&fakeRenderer{}))
		defer pool.Close()

		first := pool.Acquire()
		pool.Release(first)
		second := pool.Acquire()
		defer pool.Release(second)

		if first != second {
			t.Error("released service not reused")
		}
		if pool.created != 1 {
			t.Errorf("created = %d, want 1", pool.created)
		}
	})

	t.Run("size floor of one", func(t *testing.T) {
		pool := NewServicePool(0)
		defer pool.Close()

		if pool.Size() != 1 {
			t.Errorf("Size() = %d, want 1", pool.Size())
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		pool := NewServicePool(1, withRenderer(&fakeRenderer{}))
		if err := pool.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := pool.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})

	t.Run("release after close does not block", func(t *testing.T) {
		pool := NewServicePool(1, withRenderer(&fakeRenderer{}))
		svc := pool.Acquire()
		if err := pool.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		pool.Release(svc) // must return, not panic or hang
	})

	t.Run("concurrent release and close", func(t *testing.T) {
		// A Release racing a Close must never send on the closed
		// channel; iterate to give the race a chance to surface.
		for i := 0; i < 100; i++ {
			pool := NewServicePool(1, withRenderer(&fakeRenderer{}))
			svc := pool.Acquire()

			done := make(chan struct{})
			go func() {
				pool.Release(svc)
				close(done)
			}()

			if err := pool.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			<-done
		}
	})
}

func TestResolvePoolSize(t *testing.T) {
	t.Run("explicit workers win", func(t *testing.T) {
		if got := ResolvePoolSize(3); got != 3 {
			t.Errorf("ResolvePoolSize(3) = %d, want 3", got)
		}
	})

	t.Run("auto respects bounds", func(t *testing.T) {
		got := ResolvePoolSize(0)
		if got < MinPoolSize || got > MaxPoolSize {
			t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
		}
		if want := runtime.GOMAXPROCS(0) / cpuDivisor; want >= MinPoolSize && want <= MaxPoolSize && got != want {
			t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
		}
	})
}
