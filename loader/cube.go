package loader

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/klauspost/compress/snappy"

	"github.com/hupe1980/segmerge/internal/cache"
	"github.com/hupe1980/segmerge/internal/resource"
	"github.com/hupe1980/segmerge/model"
)

// DefaultCubeEdge is the edge length of a cube in voxels.
const DefaultCubeEdge = 128

// Option configures a CubeCache.
type Option func(*CubeCache)

// WithCubeEdge sets the cube edge length.
func WithCubeEdge(edge int) Option {
	return func(c *CubeCache) {
		if edge > 0 {
			c.edge = edge
		}
	}
}

// WithMag sets the magnification ReadSubobjectID reads from.
func WithMag(mag int) Option {
	return func(c *CubeCache) {
		if mag > 0 {
			c.mag = mag
		}
	}
}

// WithController charges cached bytes against rc.
func WithController(rc *resource.Controller) Option {
	return func(c *CubeCache) {
		c.rc = rc
	}
}

// WithDispatcher runs NotifyCacheClear on d instead of a private dispatcher.
func WithDispatcher(d *Dispatcher) Option {
	return func(c *CubeCache) {
		c.dispatcher = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *CubeCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// CubeCache is an in-process Loader backed by snappy-compressed cubes.
type CubeCache struct {
	edge       int
	mag        int
	capacity   int64
	rc         *resource.Controller
	dispatcher *Dispatcher
	ownsDisp   bool
	logger     *slog.Logger

	mu       sync.RWMutex
	clean    *cache.LRU[CubeKey]
	modified map[CubeKey][]byte
}

var _ Loader = (*CubeCache)(nil)

// NewCubeCache creates a cache holding at most capacity bytes of clean cubes.
func NewCubeCache(capacity int64, opts ...Option) *CubeCache {
	c := &CubeCache{
		edge:     DefaultCubeEdge,
		mag:      1,
		capacity: capacity,
		logger:   slog.New(slog.DiscardHandler),
		modified: make(map[CubeKey][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dispatcher == nil {
		c.dispatcher = NewDispatcher(1)
		c.ownsDisp = true
	}
	c.clean = cache.NewLRU[CubeKey](capacity, c.rc)

	return c
}

// Edge returns the cube edge length.
func (c *CubeCache) Edge() int { return c.edge }

// Mag returns the magnification used by ReadSubobjectID.
func (c *CubeCache) Mag() int { return c.mag }

func (c *CubeCache) cubeBytes() int {
	return c.edge * c.edge * c.edge * 8
}

// Put caches a clean cube given as raw labels.
func (c *CubeCache) Put(key CubeKey, labels []uint64) error {
	if len(labels) != c.edge*c.edge*c.edge {
		return fmt.Errorf("%w: %s has %d labels", ErrInvalidCube, key, len(labels))
	}

	compressed := snappy.Encode(nil, encodeLabels(labels))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clean.Set(key, compressed)

	return nil
}

// CheckCube reports whether compressed is a cube Supply would accept.
func (c *CubeCache) CheckCube(key CubeKey, compressed []byte) error {
	n, err := snappy.DecodedLen(compressed)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCube, key, err)
	}
	if n != c.cubeBytes() {
		return fmt.Errorf("%w: %s decodes to %d bytes, want %d", ErrInvalidCube, key, n, c.cubeBytes())
	}
	return nil
}

// Supply pins a snappy-compressed cube as modified.
func (c *CubeCache) Supply(key CubeKey, compressed []byte) error {
	if err := c.CheckCube(key, compressed); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.modified[key] = slices.Clone(compressed)
	c.clean.Remove(key)

	return nil
}

// Get returns the labels of a cube, preferring the modified copy.
func (c *CubeCache) Get(key CubeKey) ([]uint64, bool) {
	c.mu.RLock()
	compressed, ok := c.modified[key]
	if !ok {
		compressed, ok = c.clean.Get(key)
	}
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		c.logger.Warn("dropping corrupt cube", "cube", key.String(), "error", err)
		return nil, false
	}

	return decodeLabels(raw), true
}

// ReadSubobjectID implements Loader.
func (c *CubeCache) ReadSubobjectID(pos model.Coordinate) (uint64, error) {
	key, offset := KeyFor(pos, c.mag, c.edge)

	labels, ok := c.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s at %s", ErrCubeNotLoaded, key, pos)
	}

	return labels[offset], nil
}

// WriteSubobjectID stores id at pos and marks the containing cube modified.
func (c *CubeCache) WriteSubobjectID(pos model.Coordinate, id uint64) error {
	key, offset := KeyFor(pos, c.mag, c.edge)

	labels, ok := c.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s at %s", ErrCubeNotLoaded, key, pos)
	}
	labels[offset] = id

	compressed := snappy.Encode(nil, encodeLabels(labels))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.modified[key] = compressed
	c.clean.Remove(key)

	return nil
}

// Modified returns copies of all modified cubes, snappy-compressed.
func (c *CubeCache) Modified() map[CubeKey][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[CubeKey][]byte, len(c.modified))
	for k, v := range c.modified {
		out[k] = slices.Clone(v)
	}
	return out
}

// ModifiedKeys returns the keys of modified cubes in a stable order.
func (c *CubeCache) ModifiedKeys() []CubeKey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.SortedFunc(maps.Keys(c.modified), CompareKeys)
}

// NotifyCacheClear detaches every cube at once and releases the detached
// cubes on the dispatcher. Cubes stored after the call are kept.
func (c *CubeCache) NotifyCacheClear() {
	c.mu.Lock()
	modified, clean := c.modified, c.clean
	c.modified = make(map[CubeKey][]byte)
	c.clean = cache.NewLRU[CubeKey](c.capacity, c.rc)
	c.mu.Unlock()

	release := func() {
		clean.Clear()
		c.logger.Debug("cube cache cleared", "modified", len(modified))
	}

	if err := c.dispatcher.Submit(context.Background(), release); err != nil {
		c.logger.Warn("cube cache release not scheduled", "error", err)
		release()
	}
}

// Sync waits for pending dispatcher work.
func (c *CubeCache) Sync(ctx context.Context) error {
	return c.dispatcher.Wait(ctx)
}

// Close stops the private dispatcher, if any.
func (c *CubeCache) Close() {
	if c.ownsDisp {
		c.dispatcher.Close()
	}
}

// CompareKeys orders keys by mag, then z, y, x.
func CompareKeys(a, b CubeKey) int {
	switch {
	case a.Mag != b.Mag:
		return a.Mag - b.Mag
	case a.Z != b.Z:
		return a.Z - b.Z
	case a.Y != b.Y:
		return a.Y - b.Y
	default:
		return a.X - b.X
	}
}

func encodeLabels(labels []uint64) []byte {
	buf := make([]byte, 0, len(labels)*8)
	for _, l := range labels {
		buf = binary.LittleEndian.AppendUint64(buf, l)
	}
	return buf
}

func decodeLabels(raw []byte) []uint64 {
	labels := make([]uint64, len(raw)/8)
	for i := range labels {
		labels[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return labels
}
