package framework

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// Runnable is a background task stopped by canceling its context.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type namedRunnable struct {
	Runnable
	name string
}

// Named attaches a name to a Runnable for logging.
func Named(name string, r Runnable) Runnable {
	return &namedRunnable{Runnable: r, name: name}
}

// Runner starts Runnables and waits for all of them.
// When one stops, the rest are canceled.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	count  int
	errCh  chan error
	killCh chan struct{}
}

// NewRunner creates a Runner derived from ctx.
func NewRunner(ctx context.Context) *Runner {
	r := &Runner{
		errCh:  make(chan error),
		killCh: make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals cancels on the first SIGINT/SIGTERM and gives up waiting
// on the second.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.killCh)
	}()
	return r
}

// Go starts runnables in background.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := "anonymous"
		if n, ok := runnable.(*namedRunnable); ok {
			name = n.name
		}
		r.count++
		go func(runnable Runnable, name string) {
			glog.V(4).Infof("runner %s started", name)
			err := runnable.Run(r.ctx)
			glog.V(4).Infof("runner %s stopped: %v", name, err)
			r.cancel()
			r.errCh <- err
		}(runnable, name)
	}
	return r
}

// Wait blocks until every runnable has returned.
// context.Canceled is not reported as an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.count > 0; r.count-- {
		select {
		case <-r.killCh:
			return errors.New("forced exit")
		case err := <-r.errCh:
			if !errors.Is(err, context.Canceled) {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}
