// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package parallel runs tasks concurrently and collects their first error.
package parallel

import (
	"context"

	"github.com/ebay/micrordb/util/cmp"
)

// Invoke runs the given callbacks concurrently in a child of 'ctx'. If any of
// the callbacks returns an error, Invoke cancels this child context, waits for
// the remaining callbacks to complete, and returns the first error. Otherwise,
// Invoke waits for all the callbacks to complete, then returns nil.
func Invoke(ctx context.Context, calls ...func(ctx context.Context) error) error {
	return InvokeN(ctx, len(calls),
		func(ctx context.Context, i int) error {
			return calls[i](ctx)
		})
}

// InvokeN runs the given callback 'n' times concurrently, with i=0, i=1, ...,
// i=n-1. Every callback is started even if an earlier one fails. It behaves
// like Invoke with respect to errors and cancellation.
func InvokeN(ctx context.Context, n int, call func(ctx context.Context, i int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			ch <- call(ctx, i)
		}(i)
	}
	var firstErr error
	for i := 0; i < n; i++ {
		err := <-ch
		if err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

// InvokeLimit is like InvokeN but runs at most 'limit' callbacks at a time.
// Indexes are handed out in increasing order. Once a callback fails, no new
// callbacks are started. If 'ctx' is canceled before every index is handed
// out, InvokeLimit returns its error. A limit less than 1 is treated as 1.
func InvokeLimit(ctx context.Context, n, limit int, call func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}
	limit = cmp.MinInt(limit, n)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	indexes := make(chan int)
	dispatched := 0
	go func() {
		defer close(indexes)
		for i := 0; i < n; i++ {
			select {
			case indexes <- i:
				dispatched++
			case <-ctx.Done():
				return
			}
		}
	}()
	ch := make(chan error, limit)
	for w := 0; w < limit; w++ {
		go func() {
			var err error
			for i := range indexes {
				if err = call(ctx, i); err != nil {
					cancel()
					break
				}
			}
			ch <- err
		}()
	}
	var firstErr error
	for w := 0; w < limit; w++ {
		err := <-ch
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	// Every worker drained 'indexes' unless one failed, so the feeder is done.
	if firstErr == nil && dispatched < n {
		return ctx.Err()
	}
	return firstErr
}

// Go is like the 'go' keyword but returns a function that blocks until the
// goroutine exits. It's safe to call the returned wait function multiple times.
func Go(run func()) (wait func()) {
	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	return func() {
		<-done
	}
}

// GoCaptureError is like Go, but the wait function returns the error from
// 'run'. Every call to wait reports the same result.
func GoCaptureError(run func() error) (wait func() error) {
	var err error
	waitRun := Go(func() {
		err = run()
	})
	return func() error {
		waitRun()
		return err
	}
}
