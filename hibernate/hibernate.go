// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hibernate moves idle pixel buffers out of memory and back.
//
// A Queue accepts hibernate and wake requests for Targets and serves them on
// a background worker. Encoding and decoding run on the worker; the final
// swap of the live buffer is delegated to a Swapper so a host can run it on
// the goroutine that owns its UI. Swaps are generation checked: a buffer that
// changed while it was being encoded is left live and the stored copy is
// released.
package hibernate

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gogpu/rasterlayer/pixmap"
)

// ErrNotFound is returned by a Store for an unknown or released handle.
var ErrNotFound = errors.New("hibernate: handle not found")

// ErrClosed is returned for requests made after Close.
var ErrClosed = errors.New("hibernate: queue closed")

// Handle identifies a buffer held by a Store.
type Handle struct {
	ID     uuid.UUID
	Key    uuid.UUID // the target the buffer belongs to
	Width  int
	Height int
	Format pixmap.Format
	Bytes  int64 // stored size
}

// Target is something whose buffer can be parked. View hands fn a stable
// copy of the buffer; changes made while fn runs are caught by the
// generation check in Park.
type Target interface {
	// Key identifies the target across requests.
	Key() uuid.UUID

	// View calls fn with a snapshot of the buffer and returns its
	// generation. ok is false, and fn is not called, when the target should
	// not be parked now.
	View(fn func(buf *pixmap.Pixmap) error) (gen uint64, ok bool, err error)

	// Park drops the live buffer in favour of h if the buffer is still at
	// generation gen. It reports whether it did.
	Park(h Handle, gen uint64) bool

	// Parked returns the handle of the parked buffer.
	Parked() (Handle, bool)

	// Restore makes buf live again if h is still the parked handle.
	Restore(h Handle, buf *pixmap.Pixmap) bool
}
