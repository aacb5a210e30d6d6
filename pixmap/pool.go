package pixmap

import "sync"

// Pool is a thread-safe pool for reusing Pixmap instances.
//
// Pool groups buffers by their dimensions and format. Undo snapshots and
// scratch buffers for region operations are drawn from it, which keeps the
// allocation rate flat while a user paints.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Pixmap
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool retaining at most maxPerBucket buffers per
// size and format. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Pixmap),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed pixmap, reusing a pooled one when available.
// It returns nil for invalid dimensions or formats.
func (p *Pool) Get(width, height int, format Format) *Pixmap {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		clear(buf.pix)
		return buf
	}
	p.mu.Unlock()

	buf, err := New(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Clone returns a pooled copy of src.
func (p *Pool) Clone(src *Pixmap) *Pixmap {
	buf := p.Get(src.width, src.height, src.format)
	copy(buf.pix, src.pix)
	return buf
}

// Put returns buf to the pool. The caller must not use buf afterwards.
func (p *Pool) Put(buf *Pixmap) {
	if buf == nil {
		return
	}
	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

var defaultPool = NewPool(4)

// DefaultPool returns the package-level pool.
func DefaultPool() *Pool { return defaultPool }
