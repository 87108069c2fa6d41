package annotation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/segmerge/internal/resource"
	"github.com/hupe1980/segmerge/loader"
	"github.com/hupe1980/segmerge/mergelist"
)

const (
	// MergelistName is the archive entry holding the mergelist.
	MergelistName = "mergelist.txt"
	// JobName is the archive entry holding the job ticket.
	JobName = "microworker.txt"
)

// ErrCorruptArchive is returned for archives that cannot be read.
var ErrCorruptArchive = errors.New("annotation: corrupt archive")

var cubeNameRe = regexp.MustCompile(`^(?:(.*)_)?mag([0-9]+)x([0-9]+)y([0-9]+)z([0-9]+)(?:\.seg\.sz|\.segmentation\.snappy)$`)

// Contents is the decoded content of an archive.
type Contents struct {
	// Dataset prefixes the cube entry names.
	Dataset string
	// Mergelist is the encoded mergelist. Nil when the archive has none.
	Mergelist []byte
	// Job is the job ticket. Nil when the archive has none.
	Job *mergelist.Job
	// Cubes maps cube keys to snappy-compressed cube data.
	Cubes map[loader.CubeKey][]byte
}

// CubeName returns the entry name of a cube.
func CubeName(dataset string, key loader.CubeKey) string {
	return fmt.Sprintf("%s_mag%dx%dy%dz%d.seg.sz", dataset, key.Mag, key.X, key.Y, key.Z)
}

// ParseCubeName extracts dataset and key from a cube entry name.
func ParseCubeName(name string) (string, loader.CubeKey, bool) {
	m := cubeNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", loader.CubeKey{}, false
	}

	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return "", loader.CubeKey{}, false
		}
		nums[i] = n
	}

	return m[1], loader.CubeKey{Mag: nums[0], X: nums[1], Y: nums[2], Z: nums[3]}, true
}

// Save writes c as a zip archive to w. Cubes are written in key order.
func Save(w io.Writer, c *Contents) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	now := time.Now()

	create := func(name string, data []byte) error {
		hdr := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: now,
		}
		// Some archive tools grant no permissions on extract without a mode.
		hdr.SetMode(0o644)

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	if c.Mergelist != nil {
		if err := create(MergelistName, c.Mergelist); err != nil {
			return err
		}
	}

	if c.Job != nil {
		var buf bytes.Buffer
		if err := mergelist.EncodeJob(&buf, *c.Job); err != nil {
			return err
		}
		if err := create(JobName, buf.Bytes()); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(c.Cubes) {
		if err := create(CubeName(c.Dataset, key), c.Cubes[key]); err != nil {
			return err
		}
	}

	return zw.Close()
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	rc *resource.Controller
}

// WithController bounds parallel cube reads by rc's worker slots.
func WithController(rc *resource.Controller) LoadOption {
	return func(o *loadOptions) {
		o.rc = rc
	}
}

// Load reads an archive of the given size from r.
func Load(r io.ReaderAt, size int64, opts ...LoadOption) (*Contents, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}

	c := &Contents{Cubes: make(map[loader.CubeKey][]byte)}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(max(o.rc.Workers(), 1))

	// Cube reads still running must finish before Load returns, even on
	// error, since they read from r.
	var entryErr error

entries:
	for _, f := range zr.File {
		switch f.Name {
		case MergelistName:
			data, err := readEntry(f)
			if err != nil {
				entryErr = err
				break entries
			}
			c.Mergelist = data
			continue
		case JobName:
			data, err := readEntry(f)
			if err != nil {
				entryErr = err
				break entries
			}
			job, err := mergelist.DecodeJob(bytes.NewReader(data))
			if err != nil {
				entryErr = err
				break entries
			}
			c.Job = &job
			continue
		}

		dataset, key, ok := ParseCubeName(f.Name)
		if !ok {
			continue
		}

		g.Go(func() error {
			data, err := readEntry(f)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if c.Dataset == "" {
				c.Dataset = dataset
			}
			c.Cubes[key] = data

			return nil
		})
	}

	err = g.Wait()
	if entryErr != nil {
		return nil, entryErr
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrCorruptArchive, f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCorruptArchive, f.Name, err)
	}
	return data, nil
}
