package intel

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"reconai/pkg/logger"
)

// DefaultModuleTimeout bounds a single module run.
const DefaultModuleTimeout = 2 * time.Minute

// Dispatcher fans a scan out to its modules concurrently and waits for every
// outcome before returning. Per-module deadlines convert a stuck module into
// an error outcome without touching its siblings.
type Dispatcher struct {
	moduleTimeout time.Duration
	logger        *logger.Logger
}

type DispatcherOpt func(*Dispatcher)

func WithModuleTimeout(d time.Duration) DispatcherOpt {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.moduleTimeout = d
		}
	}
}

func WithDispatcherLogger(l *logger.Logger) DispatcherOpt {
	return func(disp *Dispatcher) {
		disp.logger = l
	}
}

func NewDispatcher(opts ...DispatcherOpt) *Dispatcher {
	d := &Dispatcher{
		moduleTimeout: DefaultModuleTimeout,
		logger:        logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs every module against the target and aggregates the outcomes.
// The wait is the sole synchronization barrier: no partial view of the
// outcomes ever escapes. Outcome order matches the module order.
func (d *Dispatcher) Dispatch(ctx context.Context, modules []Module, target Target) *Report {
	outcomes := make([]Outcome, len(modules))

	var wg sync.WaitGroup
	for i, m := range modules {
		wg.Add(1)
		go func(i int, m Module) {
			defer wg.Done()

			mctx, cancel := context.WithTimeout(ctx, d.moduleTimeout)
			defer cancel()

			start := time.Now()
			outcomes[i] = Run(mctx, m, target)

			entry := d.logger.WithFields(logger.Fields{
				"module":   m.Name(),
				"target":   target.Value,
				"duration": time.Since(start).String(),
			})
			if outcomes[i].OK() {
				entry.Info("Module completed")
			} else {
				entry.WithField("error", outcomes[i].Err).Warn("Module failed")
			}
		}(i, m)
	}
	wg.Wait()

	return NewReport(outcomes)
}
