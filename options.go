package segmerge

import (
	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/codec"
	"github.com/hupe1980/segmerge/color"
	"github.com/hupe1980/segmerge/internal/resource"
	"github.com/hupe1980/segmerge/loader"
)

// DefaultCubeCacheBytes bounds the clean cubes of the built-in loader.
const DefaultCubeCacheBytes = 256 << 20

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	loader           loader.Loader
	blobs            blobstore.Store
	limits           resource.Limits
	palette          color.Palette
	alpha            uint8
	background       uint64
	categories       []string
	dataset          string
	cubeEdge         int
}

// Option configures a Segmentation.
type Option func(*options)

// WithCodec configures the codec used for JSON palettes.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector sets a custom metrics collector for monitoring.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithLogger sets a custom logger.
// If nil is passed, NoopLogger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLoader replaces the built-in cube cache. Archives only carry cubes
// when the loader is a *loader.CubeCache.
func WithLoader(l loader.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithBlobStore sets where StoreAnnotation and FetchAnnotation put archives.
func WithBlobStore(bs blobstore.Store) Option {
	return func(o *options) {
		o.blobs = bs
	}
}

// WithResourceLimits bounds cube cache memory, parallel cube reads and
// upload bandwidth.
func WithResourceLimits(l resource.Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithPalette sets the overlay lookup table.
func WithPalette(p color.Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

// WithAlpha sets the overlay opacity.
func WithAlpha(alpha uint8) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithBackgroundID sets the subobject id rendered transparent.
func WithBackgroundID(id uint64) Option {
	return func(o *options) {
		o.background = id
	}
}

// WithCategories replaces the prefixed category set.
func WithCategories(categories ...string) Option {
	return func(o *options) {
		o.categories = categories
	}
}

// WithDataset sets the dataset name used for cube entries in archives.
func WithDataset(name string) Option {
	return func(o *options) {
		o.dataset = name
	}
}

// WithCubeEdge sets the cube edge length of the built-in loader.
func WithCubeEdge(edge int) Option {
	return func(o *options) {
		o.cubeEdge = edge
	}
}
