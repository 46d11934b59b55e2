package letterpdf

// Notes:
// - ExporterPool: lazy creation, acquire/release cycling, close
// - ResolvePoolSize: explicit override and clamping

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestExporterPool - Lifecycle
// ---------------------------------------------------------------------------

func TestExporterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(2, WithPacing(0))
	defer pool.Close()

	if pool.Size() != 2 {
		t.Fatalf("Size = %d, want 2", pool.Size())
	}

	first, err := pool.Acquire()
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if first == nil {
		t.Fatal("nil exporter acquired")
	}

	second, err := pool.Acquire()
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if second == first {
		t.Error("pool handed out the same exporter twice without a release")
	}

	pool.Release(first)

	// With capacity exhausted, the released exporter comes back.
	third, err := pool.Acquire()
	if err != nil {
		t.Fatalf("third Acquire: %v", err)
	}
	if third != first {
		t.Error("released exporter was not reused")
	}

	pool.Release(second)
	pool.Release(third)
}

func TestExporterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(0)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size = %d, want clamp to 1", pool.Size())
	}
}

func TestExporterPool_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(1)
	exp, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pool.Release(exp)

	if err := pool.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestExporterPool_ReleaseRacingClose(t *testing.T) {
	t.Parallel()

	// Releases must never send on the channel Close has closed, even
	// when the two interleave; the closed-check and the send share one
	// critical section. Exercised under the race detector.
	for i := 0; i < 50; i++ {
		pool := NewExporterPool(1, WithPacing(0))
		exp, err := pool.Acquire()
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			pool.Release(exp)
		}()
		if err := pool.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		<-done
	}
}

func TestExporterPool_ReleaseAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(1)
	exp, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	pool.Release(exp) // must be a no-op, not a panic
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit size wins", workers: 5, want: 5},
		{name: "explicit size above cap is honored", workers: 12, want: 12},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}

	// Derived sizing stays within the documented bounds.
	derived := ResolvePoolSize(0)
	if derived < MinPoolSize || derived > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", derived, MinPoolSize, MaxPoolSize)
	}
}
