package letterpdf

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one exporter is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ExporterPool manages a pool of Exporters for servers that export many
// documents. Each Exporter owns its own browser, so acquired exporters
// can run in parallel while every individual Exporter stays internally
// serialized on its single rendering surface.
// Exporters are created lazily on first acquire to avoid startup delay.
type ExporterPool struct {
	size      int
	opts      []Option
	exporters []*Exporter
	sem       chan *Exporter
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewExporterPool creates a pool with capacity for n Exporters, each
// configured with the given options.
func NewExporterPool(n int, opts ...Option) *ExporterPool {
	if n < 1 {
		n = 1
	}
	return &ExporterPool{
		size:      n,
		opts:      opts,
		exporters: make([]*Exporter, 0, n),
		sem:       make(chan *Exporter, n),
	}
}

// Acquire gets an exporter from the pool, creating one if capacity
// allows. Blocks if all exporters are in use.
func (p *ExporterPool) Acquire() (*Exporter, error) {
	// Try to get an existing exporter (non-blocking).
	select {
	case exp := <-p.sem:
		return exp, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create the exporter outside the lock.
		exp, err := NewExporter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.exporters = append(p.exporters, exp)
		p.mu.Unlock()
		return exp, nil
	}
	p.mu.Unlock()

	// All exporters created, wait for one to be released.
	return <-p.sem, nil
}

// Release returns an exporter to the pool. The send happens under the
// lock so a concurrent Close cannot close the channel between the
// closed-check and the send. Capacity bounds the number of outstanding
// exporters, so the send never blocks while the lock is held.
func (p *ExporterPool) Release(exp *Exporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- exp
}

// Close releases every exporter's browser resources.
// Returns an aggregated error if multiple exporters fail to close.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	exporters := p.exporters
	p.mu.Unlock()

	var errs []error
	for _, exp := range exporters {
		if err := exp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size to use.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware when automaxprocs ran in main.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
