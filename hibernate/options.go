// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hibernate

import (
	"log/slog"
	"time"
)

// Option configures a Queue.
type Option func(*options)

type options struct {
	workers      int
	cycleTimeout time.Duration
	swap         func(func())
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		workers: 2,
		swap:    func(fn func()) { fn() },
	}
}

// WithWorkers bounds how many requests of a cycle run at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCycleTimeout interrupts a worker cycle after d. Requests the cycle did
// not finish are retried on the next one. Zero means no limit.
func WithCycleTimeout(d time.Duration) Option {
	return func(o *options) {
		o.cycleTimeout = d
	}
}

// WithSwapper sets the function that runs buffer swaps for the worker. It
// must call fn exactly once before returning, for example by posting it to a
// UI goroutine and waiting.
func WithSwapper(swap func(fn func())) Option {
	return func(o *options) {
		if swap != nil {
			o.swap = swap
		}
	}
}

// WithLogger overrides the shared rasterlayer logger for this queue.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
