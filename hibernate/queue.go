// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hibernate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rasterlayer/internal/logging"
	"github.com/gogpu/rasterlayer/pixmap"
)

type request struct {
	t      Target
	onDone []func(error)
}

// Queue serves hibernate and wake requests on a background worker.
//
// Each cycle takes every pending request. Wakes run before hibernates;
// within each group requests keep submission order. A wake cancels any
// pending hibernate of the same target and duplicate requests coalesce.
type Queue struct {
	store Store
	opts  options

	mu       sync.Mutex
	wakes    []*request
	sleeps   []*request
	barriers []chan struct{}
	closed   bool

	signal chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewQueue creates a queue parking buffers in store. Call Start to run the
// worker.
func NewQueue(store Store, opts ...Option) *Queue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue{
		store:  store,
		opts:   o,
		signal: make(chan struct{}, 1),
	}
}

func (q *Queue) logger() *slog.Logger {
	if q.opts.logger != nil {
		return q.opts.logger
	}
	return logging.Logger()
}

// Start runs the worker until ctx is done or Close is called. Calling Start
// more than once has no effect.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.done != nil || q.closed {
		q.mu.Unlock()
		return
	}
	ctx, q.cancel = context.WithCancel(ctx)
	q.done = make(chan struct{})
	q.mu.Unlock()

	go func() {
		defer close(q.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.signal:
				q.RunOnce(ctx)
			}
		}
	}()
}

// Close stops the worker and waits for it. Pending requests are dropped;
// parked buffers stay in the store and can still be woken immediately.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	cancel, done := q.cancel, q.done
	q.wakes, q.sleeps = nil, nil
	barriers := q.barriers
	q.barriers = nil
	q.mu.Unlock()

	for _, b := range barriers {
		close(b)
	}
	if cancel != nil {
		cancel()
		<-done
	}
}

func (q *Queue) kick() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func indexOf(rs []*request, t Target) int {
	for i, r := range rs {
		if r.t.Key() == t.Key() {
			return i
		}
	}
	return -1
}

// Hibernate asks for t's buffer to be parked. It never blocks.
func (q *Queue) Hibernate(t Target) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || indexOf(q.sleeps, t) >= 0 {
		return
	}
	q.sleeps = append(q.sleeps, &request{t: t})
	q.kick()
}

// Wake asks for t's buffer to be made live and drops any pending hibernate
// of t. With immediate set, the buffer is restored on the calling goroutine
// before Wake returns, bypassing the Swapper. Otherwise the request is
// queued and onDone, if not nil, is called from the worker.
func (q *Queue) Wake(ctx context.Context, t Target, immediate bool, onDone func(error)) error {
	q.mu.Lock()
	if i := indexOf(q.sleeps, t); i >= 0 {
		q.sleeps = append(q.sleeps[:i], q.sleeps[i+1:]...)
	}
	if immediate {
		q.mu.Unlock()
		err := q.restore(ctx, t, func(fn func()) { fn() })
		if onDone != nil {
			onDone(err)
		}
		return err
	}
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if i := indexOf(q.wakes, t); i >= 0 {
		if onDone != nil {
			q.wakes[i].onDone = append(q.wakes[i].onDone, onDone)
		}
		return nil
	}
	r := &request{t: t}
	if onDone != nil {
		r.onDone = append(r.onDone, onDone)
	}
	q.wakes = append(q.wakes, r)
	q.kick()
	return nil
}

// Sync waits until every request submitted before it has been attempted
// by a worker cycle.
func (q *Queue) Sync(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	b := make(chan struct{})
	q.barriers = append(q.barriers, b)
	q.kick()
	q.mu.Unlock()

	select {
	case <-b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs a single worker cycle on the calling goroutine. Start calls
// it whenever requests arrive; hosts without a background worker may call
// it directly.
func (q *Queue) RunOnce(ctx context.Context) {
	q.mu.Lock()
	wakes, sleeps, barriers := q.wakes, q.sleeps, q.barriers
	q.wakes, q.sleeps, q.barriers = nil, nil, nil
	q.mu.Unlock()

	defer func() {
		for _, b := range barriers {
			close(b)
		}
	}()
	if len(wakes)+len(sleeps) == 0 {
		return
	}

	if q.opts.cycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.opts.cycleTimeout)
		defer cancel()
	}

	leftWakes := q.runBatch(ctx, wakes, q.wake)
	leftSleeps := q.runBatch(ctx, sleeps, q.park)
	if n := len(leftWakes) + len(leftSleeps); n > 0 {
		q.logger().Warn("hibernate: cycle interrupted, requeueing", "requests", n, "err", ctx.Err())
		q.requeue(leftWakes, leftSleeps)
	}
}

// runBatch processes rs with at most workers running at once and returns
// the requests that were not finished because ctx ended.
func (q *Queue) runBatch(ctx context.Context, rs []*request, fn func(context.Context, *request) error) []*request {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		left []*request
	)
	g.SetLimit(q.opts.workers)
	for _, r := range rs {
		if ctx.Err() != nil {
			mu.Lock()
			left = append(left, r)
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			err := fn(ctx, r)
			if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				mu.Lock()
				left = append(left, r)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return left
}

// requeue puts unfinished requests back ahead of anything submitted during
// the cycle, keeping the wake-cancels-hibernate rule.
func (q *Queue) requeue(wakes, sleeps []*request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	var ws, ss []*request
	for _, r := range wakes {
		if i := indexOf(q.wakes, r.t); i >= 0 {
			q.wakes[i].onDone = append(r.onDone, q.wakes[i].onDone...)
			continue
		}
		ws = append(ws, r)
	}
	for _, r := range sleeps {
		if indexOf(q.sleeps, r.t) >= 0 || indexOf(q.wakes, r.t) >= 0 || indexOf(ws, r.t) >= 0 {
			continue
		}
		ss = append(ss, r)
	}
	q.wakes = append(ws, q.wakes...)
	q.sleeps = append(ss, q.sleeps...)
	q.kick()
}

func (q *Queue) wake(ctx context.Context, r *request) error {
	err := q.restore(ctx, r.t, q.opts.swap)
	if err != nil && ctx.Err() != nil {
		return err
	}
	if err != nil {
		q.logger().Warn("hibernate: wake failed", "target", r.t.Key(), "err", err)
	}
	for _, fn := range r.onDone {
		fn(err)
	}
	return nil
}

// restore reads t's parked buffer back and swaps it in. A failed read is
// not an error if someone else restored t meanwhile.
func (q *Queue) restore(ctx context.Context, t Target, swap func(func())) error {
	for {
		h, ok := t.Parked()
		if !ok {
			return nil
		}
		buf, err := q.store.Get(ctx, h)
		if err != nil {
			if _, still := t.Parked(); !still {
				return nil
			}
			return err
		}
		restored := false
		swap(func() { restored = t.Restore(h, buf) })
		if restored {
			if err := q.store.Release(h); err != nil {
				q.logger().Warn("hibernate: release failed", "handle", h.ID, "err", err)
			}
			return nil
		}
	}
}

func (q *Queue) park(ctx context.Context, r *request) error {
	t := r.t
	if _, parked := t.Parked(); parked {
		return nil
	}
	var h Handle
	gen, ok, err := t.View(func(buf *pixmap.Pixmap) error {
		var err error
		h, err = q.store.Put(ctx, t.Key(), buf)
		return err
	})
	if err != nil {
		if ctx.Err() == nil {
			q.logger().Warn("hibernate: store failed", "target", t.Key(), "err", err)
		}
		return err
	}
	if !ok {
		return nil
	}

	parked := false
	q.opts.swap(func() { parked = t.Park(h, gen) })
	if !parked {
		_ = q.store.Release(h)
		q.logger().Debug("hibernate: buffer changed during encode, kept live", "target", t.Key())
		return nil
	}
	q.logger().Debug("hibernate: parked", "target", t.Key(), "bytes", h.Bytes)
	return nil
}
