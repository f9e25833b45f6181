// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start must not block: implementations spawn their own goroutines and keep
// running until ctx is cancelled or Stop is called. Stop blocks until the
// worker has fully exited and must be safe to call more than once.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc; done chan struct{} }
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    w.done = make(chan struct{})
//	    go func() { defer close(w.done); <-ctx.Done() }()
//	}
//
//	func (w *MyWorker) Stop() { w.cancel(); <-w.done }
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
