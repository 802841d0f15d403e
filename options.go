package resumepdf

import (
	"log/slog"
	"time"
)

// Option configures a Generator or Deriver.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	now     func() time.Time
	inspect bool
}

func defaultOptions() options {
	return options{
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		inspect: true,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithInspection toggles PDF signature and page-count checks after
// rasterization. Enabled by default.
func WithInspection(enabled bool) Option {
	return func(o *options) { o.inspect = enabled }
}
