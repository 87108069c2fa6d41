package annotation

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/internal/resource"
	"github.com/hupe1980/segmerge/loader"
	"github.com/hupe1980/segmerge/mergelist"
)

func sampleContents() *Contents {
	return &Contents{
		Dataset:   "j0126",
		Mergelist: []byte("1 0 1 5 6\n0 0 0\nneuron\n\n"),
		Job:       &mergelist.Job{ID: 42, Campaign: "axons", Worker: "w7", SubmitPath: "/submit"},
		Cubes: map[loader.CubeKey][]byte{
			{Mag: 1, X: 3, Y: 2, Z: 1}: snappy.Encode(nil, make([]byte, 64)),
			{Mag: 2, X: 0, Y: 0, Z: 0}: snappy.Encode(nil, bytes.Repeat([]byte{1}, 64)),
		},
	}
}

func TestCubeName(t *testing.T) {
	key := loader.CubeKey{Mag: 4, X: 10, Y: 20, Z: 30}
	name := CubeName("j0126", key)
	assert.Equal(t, "j0126_mag4x10y20z30.seg.sz", name)

	dataset, got, ok := ParseCubeName(name)
	require.True(t, ok)
	assert.Equal(t, "j0126", dataset)
	assert.Equal(t, key, got)

	_, got, ok = ParseCubeName("old_set_mag1x2y3z4.segmentation.snappy")
	require.True(t, ok)
	assert.Equal(t, loader.CubeKey{Mag: 1, X: 2, Y: 3, Z: 4}, got)

	for _, name := range []string{"mergelist.txt", "annotation.xml", "1.ply", "mag1x2y3.seg.sz"} {
		_, _, ok := ParseCubeName(name)
		assert.False(t, ok, name)
	}
}

func TestSaveLoad(t *testing.T) {
	want := sampleContents()

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, want))

	rc := resource.NewController(resource.Limits{Workers: 2})
	got, err := Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()), WithController(rc))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestSaveOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, sampleContents()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		assert.Equal(t, zip.Deflate, f.Method)
	}
	assert.Equal(t, []string{
		MergelistName,
		JobName,
		"j0126_mag1x3y2z1.seg.sz",
		"j0126_mag2x0y0z0.seg.sz",
	}, names)
}

func TestSaveWithoutOptionalEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, &Contents{}))

	got, err := Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Nil(t, got.Mergelist)
	assert.Nil(t, got.Job)
	assert.Empty(t, got.Cubes)
}

func TestLoadIgnoresForeignEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"annotation.xml": "<things/>",
		"3.ply":          "ply",
		MergelistName:    "7 0 1 7\n1 2 3\n\n\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	got, err := Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, "7 0 1 7\n1 2 3\n\n\n", string(got.Mergelist))
	assert.Empty(t, got.Cubes)
}

func TestLoadCorrupt(t *testing.T) {
	data := []byte("not a zip")
	_, err := Load(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrCorruptArchive)
}

// slowReaderAt counts ReadAt calls still running.
type slowReaderAt struct {
	r        io.ReaderAt
	inflight atomic.Int32
}

func (s *slowReaderAt) ReadAt(p []byte, off int64) (int, error) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)
	time.Sleep(5 * time.Millisecond)
	return s.r.ReadAt(p, off)
}

func TestLoadWaitsForCubesOnError(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, body []byte) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	for x := range 8 {
		write(CubeName("ds", loader.CubeKey{Mag: 1, X: x}), snappy.Encode(nil, make([]byte, 64)))
	}
	write(JobName, []byte("not-a-number\n"))
	require.NoError(t, zw.Close())

	r := &slowReaderAt{r: bytes.NewReader(buf.Bytes())}
	rc := resource.NewController(resource.Limits{Workers: 4})

	_, err := Load(r, int64(buf.Len()), WithController(rc))
	require.ErrorIs(t, err, mergelist.ErrCorruptJobFile)
	assert.Zero(t, r.inflight.Load(), "no read may outlive Load")
}

func TestStoreFetch(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	want := sampleContents()
	require.NoError(t, Store(ctx, bs, "jobs/42.zip", want))

	got, err := Fetch(ctx, bs, "jobs/42.zip")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Fetch(ctx, bs, "missing.zip")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
