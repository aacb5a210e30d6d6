// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hibernate

import (
	"bytes"
	"compress/flate"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/rasterlayer/layerfile"
	"github.com/gogpu/rasterlayer/pixmap"
)

// Store keeps parked buffers.
type Store interface {
	// Put stores a copy of buf. buf must not be retained.
	Put(ctx context.Context, key uuid.UUID, buf *pixmap.Pixmap) (Handle, error)

	// Get returns the buffer stored under h. The entry stays until Release.
	Get(ctx context.Context, h Handle) (*pixmap.Pixmap, error)

	// Release discards the entry. Releasing an unknown handle is a no-op.
	Release(h Handle) error
}

func newHandle(key uuid.UUID, buf *pixmap.Pixmap) Handle {
	return Handle{
		ID:     uuid.New(),
		Key:    key,
		Width:  buf.Width(),
		Height: buf.Height(),
		Format: buf.Format(),
	}
}

// MemoryStore keeps buffers in memory as deflate-compressed layer data.
// Transparent or flat areas shrink to almost nothing.
type MemoryStore struct {
	level int

	mu      sync.Mutex
	entries map[uuid.UUID][]byte
}

// NewMemoryStore returns a MemoryStore compressing at flate.BestSpeed.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{level: flate.BestSpeed, entries: make(map[uuid.UUID][]byte)}
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, key uuid.UUID, buf *pixmap.Pixmap) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	var b bytes.Buffer
	zw, err := flate.NewWriter(&b, m.level)
	if err != nil {
		return Handle{}, err
	}
	if err := layerfile.Encode(zw, layerfile.Layer{Image: buf}); err != nil {
		return Handle{}, fmt.Errorf("hibernate: encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Handle{}, err
	}

	h := newHandle(key, buf)
	h.Bytes = int64(b.Len())
	m.mu.Lock()
	m.entries[h.ID] = b.Bytes()
	m.mu.Unlock()
	return h, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, h Handle) (*pixmap.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	data, ok := m.entries[h.ID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	zr := flate.NewReader(bytes.NewReader(data))
	defer zr.Close()
	l, err := layerfile.Decode(zr)
	if err != nil {
		return nil, fmt.Errorf("hibernate: decode %s: %w", h.ID, err)
	}
	return l.Image, nil
}

// Release implements Store.
func (m *MemoryStore) Release(h Handle) error {
	m.mu.Lock()
	delete(m.entries, h.ID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored buffers.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// DiskStore spools buffers to layer files in a directory, one file per
// handle.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed and returns a store spooling into it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("hibernate: spool dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) path(id uuid.UUID) string {
	return filepath.Join(d.dir, id.String()+".layer")
}

// Put implements Store.
func (d *DiskStore) Put(ctx context.Context, key uuid.UUID, buf *pixmap.Pixmap) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	h := newHandle(key, buf)
	p := d.path(h.ID)
	if err := layerfile.Save(p, layerfile.Layer{Image: buf}); err != nil {
		_ = os.Remove(p)
		return Handle{}, fmt.Errorf("hibernate: spool: %w", err)
	}
	if fi, err := os.Stat(p); err == nil {
		h.Bytes = fi.Size()
	}
	return h, nil
}

// Get implements Store.
func (d *DiskStore) Get(ctx context.Context, h Handle) (*pixmap.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := layerfile.Load(d.path(h.ID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l.Image, nil
}

// Release implements Store.
func (d *DiskStore) Release(h Handle) error {
	err := os.Remove(d.path(h.ID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
