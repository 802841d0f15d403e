package resumepdf

import (
	"context"
	"runtime"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one render slot is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// LimitedRasterizer bounds how many browsers run at once. Each call still
// gets its own browser; the limiter only makes excess calls wait.
type LimitedRasterizer struct {
	next Rasterizer
	sem  chan struct{}
}

var _ Rasterizer = (*LimitedRasterizer)(nil)

// NewLimitedRasterizer wraps next with n concurrent slots.
func NewLimitedRasterizer(next Rasterizer, n int) *LimitedRasterizer {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &LimitedRasterizer{next: next, sem: make(chan struct{}, n)}
}

// Rasterize waits for a free slot, or for ctx to end, then delegates.
func (l *LimitedRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-l.sem }()

	return l.next.Rasterize(ctx, html)
}

// Size returns the number of slots.
func (l *LimitedRasterizer) Size() int {
	return cap(l.sem)
}

// InUse returns the number of slots currently held.
func (l *LimitedRasterizer) InUse() int {
	return len(l.sem)
}

// ResolvePoolSize determines the number of concurrent renders.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
