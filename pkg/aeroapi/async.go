package aeroapi

import "context"

// Future is the result of an operation started with Go.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn in its own goroutine. Any façade method fits, e.g.
//
//	f := aeroapi.Go(ctx, func(ctx context.Context) (aeroapi.Airport, error) {
//		return client.GetAirport(ctx, "KTPA")
//	})
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the operation finishes.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Then invokes cb with the result on a separate goroutine once it is available.
func (f *Future[T]) Then(cb func(T, error)) {
	go func() { cb(f.Wait()) }()
}

// Async is the callback form of fn. cb is called exactly once.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error), cb func(T, error)) {
	Go(ctx, fn).Then(cb)
}
