package segmerge

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/annotation"
	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/color"
	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/loader"
	"github.com/hupe1980/segmerge/model"
	"github.com/hupe1980/segmerge/session"
)

const todoMergelist = "1 1 0 10\n0 0 0\n\n\n2 1 0 20 21\n5 5 5\nneuron\n\n3 0 1 30\n1 1 1 255 0 0\nmito\nfine\n"

func newTestSegmentation(t *testing.T, opts ...Option) *Segmentation {
	t.Helper()
	s := New(opts...)
	t.Cleanup(s.Close)
	return s
}

func record(s *Segmentation) *[]engine.Event {
	var events []engine.Event
	s.Subscribe(func(e engine.Event) { events = append(events, e) })
	return &events
}

func kinds(events []engine.Event) []engine.EventKind {
	out := make([]engine.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestCreateAndSelectObject(t *testing.T) {
	s := newTestSegmentation(t)
	assert.False(t, s.Session().Dirty())

	first := s.CreateAndSelectObject(model.Coordinate{X: 1})
	assert.Equal(t, []uint64{1}, first.Subobjects())
	assert.Equal(t, []uint64{first.Index()}, s.Store().Selected())
	assert.True(t, s.Session().Dirty())

	second := s.CreateAndSelectObject(model.Coordinate{X: 2})
	assert.Equal(t, []uint64{2}, second.Subobjects())
	assert.Equal(t, []uint64{second.Index()}, s.Store().Selected())
	require.NoError(t, s.CheckInvariants())
}

func TestMergeAndUnmergeSelected(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s := newTestSegmentation(t, WithMetricsCollector(metrics))

	for _, id := range []uint64{1, 2, 3} {
		s.SelectObjectFromSubobject(id, model.Coordinate{X: int(id)})
	}
	require.Equal(t, 3, s.Store().ObjectCount())

	assert.Equal(t, 2, s.MergeSelected())
	require.Equal(t, 1, s.Store().ObjectCount())
	assert.Equal(t, []uint64{1, 2, 3}, s.Store().Object(0).Subobjects())
	require.NoError(t, s.CheckInvariants())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.MergeCount)
	assert.Equal(t, int64(2), stats.MergedObjects)

	// A single selected object is deleted by unmerge.
	assert.Equal(t, 1, s.UnmergeSelected(model.Coordinate{}))
	assert.Equal(t, 0, s.Store().ObjectCount())
	assert.Equal(t, int64(1), metrics.GetStats().UnmergeCount)
}

func TestDeleteSelected(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s := newTestSegmentation(t, WithMetricsCollector(metrics))

	s.SelectObjectFromSubobject(1, model.Coordinate{})
	s.SelectObjectFromSubobject(2, model.Coordinate{})
	s.Store().CreateObject(model.Coordinate{}, []uint64{3})

	assert.Equal(t, 2, s.DeleteSelected())
	assert.Equal(t, 1, s.Store().ObjectCount())
	assert.Equal(t, int64(2), metrics.GetStats().DeletedObjects)
	require.NoError(t, s.CheckInvariants())
}

func TestPlaceCommentForSelected(t *testing.T) {
	s := newTestSegmentation(t)

	assert.False(t, s.PlaceCommentForSelected("nothing selected"))

	a := s.SelectObjectFromSubobject(1, model.Coordinate{})
	assert.True(t, s.PlaceCommentForSelected("check this"))
	assert.Equal(t, "check this", a.Comment())

	s.SelectObjectFromSubobject(2, model.Coordinate{})
	assert.False(t, s.PlaceCommentForSelected("two selected"))
	assert.Equal(t, "check this", a.Comment())
}

func TestRestoreDefaultColorForSelected(t *testing.T) {
	s := newTestSegmentation(t)
	assert.False(t, s.RestoreDefaultColorForSelected())

	obj := s.SelectObjectFromSubobject(4, model.Coordinate{})
	s.ChangeColor(obj.Index(), model.RGB{R: 1, G: 2, B: 3})

	events := record(s)
	assert.True(t, s.RestoreDefaultColorForSelected())

	_, overridden := obj.Color()
	assert.False(t, overridden)
	assert.Equal(t, []engine.EventKind{engine.EventReset}, kinds(*events))
	assert.Equal(t, s.Colors().DefaultColor(obj.ID()).WithAlpha(color.DefaultAlpha), s.Colors().ObjectColor(obj.Index()))
}

func TestHoverSubobject(t *testing.T) {
	s := newTestSegmentation(t)
	obj := s.SelectObjectFromSubobject(5, model.Coordinate{})

	events := record(s)

	s.HoverSubobject(5)
	s.HoverSubobject(5)
	s.HoverSubobject(9)

	require.Len(t, *events, 2)
	assert.Equal(t, engine.Event{Kind: engine.EventHoverChanged, SubobjectID: 5, Overlap: []uint64{obj.Index()}}, (*events)[0])
	assert.Equal(t, engine.Event{Kind: engine.EventHoverChanged, SubobjectID: 9}, (*events)[1])
	assert.Equal(t, uint64(9), s.HoveredSubobject())
}

func TestTouchObjects(t *testing.T) {
	s := newTestSegmentation(t)
	a, err := s.Store().CreateObject(model.Coordinate{}, []uint64{7})
	require.NoError(t, err)
	b, err := s.Store().CreateObject(model.Coordinate{}, []uint64{7, 8})
	require.NoError(t, err)

	events := record(s)

	assert.Empty(t, s.TouchedObjects())

	s.TouchObjects(7)
	touched := s.TouchedObjects()
	require.Len(t, touched, 2)
	assert.Equal(t, a.Index(), touched[0].Index())
	assert.Equal(t, b.Index(), touched[1].Index())

	s.UntouchObjects()
	assert.Empty(t, s.TouchedObjects())
	assert.Equal(t, []engine.EventKind{engine.EventTouchedReset, engine.EventTouchedReset}, kinds(*events))
}

func TestRenderFlags(t *testing.T) {
	s := newTestSegmentation(t, WithBackgroundID(0))
	events := record(s)

	assert.Equal(t, model.Transparent, s.ColorForSubobject(0))
	assert.Equal(t, s.Colors().SubobjectColor(12), s.ColorForSubobject(12))

	s.SetRenderOnlySelected(true)
	s.SetBackgroundID(12)

	assert.Equal(t, model.Transparent, s.ColorForSubobject(12))
	assert.Equal(t, []engine.Event{
		{Kind: engine.EventRenderOnlySelectedChanged, Flag: true},
		{Kind: engine.EventBackgroundChanged, SubobjectID: 12},
	}, *events)
}

func TestStartJobMode(t *testing.T) {
	s := newTestSegmentation(t)
	require.NoError(t, s.LoadMergelist(strings.NewReader(todoMergelist)))
	require.NoError(t, s.LoadJob(strings.NewReader("42\naxons\nw7\n/submit\n")))
	assert.Equal(t, session.ModeMergeSimple, s.Session().Mode())

	s.ClearSelection()
	s.StartJobMode()

	assert.Equal(t, JobAlpha, s.Colors().Alpha())
	assert.True(t, s.Colors().RenderOnlySelected())

	front, ok := s.Store().FrontSelected()
	require.True(t, ok)
	assert.Equal(t, uint64(1), front.ID())

	next, ok := s.SelectNextTodo()
	require.True(t, ok)
	assert.Equal(t, uint64(2), next.ID())
	assert.Equal(t, 1, s.TodosLeft())

	next, ok = s.MarkSelectedForSplitting(model.Coordinate{X: 9})
	assert.False(t, ok)
	assert.Nil(t, next)
	assert.Equal(t, engine.SplitRequestComment, s.Store().Object(1).Comment())
	assert.Empty(t, s.TodoList())
}

func TestLoadMergelistCorrupt(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s := newTestSegmentation(t, WithMetricsCollector(metrics))
	require.NoError(t, s.LoadMergelist(strings.NewReader(todoMergelist)))

	err := s.LoadMergelist(strings.NewReader("9 0 0 90\n0 0\n\n\n"))
	require.ErrorIs(t, err, ErrCorruptMergelist)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)

	assert.Equal(t, 3, s.Store().ObjectCount())
	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, int64(3), stats.LoadedObjects)
}

func TestSaveMergelist(t *testing.T) {
	s := newTestSegmentation(t)
	require.NoError(t, s.LoadMergelist(strings.NewReader(todoMergelist)))

	var buf bytes.Buffer
	require.NoError(t, s.SaveMergelist(&buf))
	assert.Equal(t, todoMergelist, buf.String())
}

func writeTestCube(t *testing.T, s *Segmentation) {
	t.Helper()
	cc, ok := s.Loader().(*loader.CubeCache)
	require.True(t, ok)

	require.NoError(t, cc.Put(loader.CubeKey{Mag: 1}, []uint64{3, 3, 3, 3, 3, 3, 3, 3}))
	require.NoError(t, cc.WriteSubobjectID(model.Coordinate{X: 1, Y: 1, Z: 1}, 9))
}

func TestClearThenLoadAnnotationKeepsCubes(t *testing.T) {
	src := newTestSegmentation(t, WithCubeEdge(2))
	writeTestCube(t, src)
	require.NoError(t, src.LoadMergelist(strings.NewReader(todoMergelist)))

	var buf bytes.Buffer
	require.NoError(t, src.SaveAnnotation(&buf))

	dst := newTestSegmentation(t, WithCubeEdge(2))
	writeTestCube(t, dst)
	dst.Clear()
	require.NoError(t, dst.LoadAnnotation(bytes.NewReader(buf.Bytes()), int64(buf.Len())))

	cc := dst.Loader().(*loader.CubeCache)
	require.NoError(t, cc.Sync(context.Background()))

	assert.Len(t, cc.Modified(), 1)
	id, err := dst.SubobjectAt(model.Coordinate{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)
	assert.Equal(t, 3, dst.Store().ObjectCount())
}

func TestLoadAnnotationCorruptMergelistKeepsState(t *testing.T) {
	src := newTestSegmentation(t, WithCubeEdge(2))
	writeTestCube(t, src)
	cubes := src.Loader().(*loader.CubeCache).Modified()

	var buf bytes.Buffer
	require.NoError(t, annotation.Save(&buf, &annotation.Contents{
		Dataset:   "ds",
		Mergelist: []byte("1 0 0 10\nnot a location\n\n\n"),
		Cubes:     cubes,
	}))

	dst := newTestSegmentation(t, WithCubeEdge(2))
	err := dst.LoadAnnotation(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.ErrorIs(t, err, ErrCorruptMergelist)

	assert.Zero(t, dst.Store().ObjectCount())
	assert.Empty(t, dst.Loader().(*loader.CubeCache).Modified())
	assert.False(t, dst.Session().Dirty())
}

func TestDeleteObjectWithZeroID(t *testing.T) {
	s := newTestSegmentation(t)
	require.NoError(t, s.LoadMergelist(strings.NewReader("0 0 0 5\n0 0 0\n\n\n")))

	assert.Equal(t, 1, s.DeleteSelected())
	assert.Zero(t, s.Store().HighestObjectID())

	first := s.CreateAndSelectObject(model.Coordinate{})
	second := s.CreateAndSelectObject(model.Coordinate{})
	assert.Equal(t, uint64(1), first.ID())
	assert.Equal(t, uint64(2), second.ID())
	require.NoError(t, s.CheckInvariants())
}

func TestSelectAt(t *testing.T) {
	s := newTestSegmentation(t, WithCubeEdge(2))
	writeTestCube(t, s)

	obj, err := s.SelectAt(model.Coordinate{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []uint64{9}, obj.Subobjects())

	c, err := s.ColorAt(model.Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, s.Colors().SubobjectColor(3), c)

	_, err = s.SelectAt(model.Coordinate{X: 100})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, loader.ErrCubeNotLoaded)
}

func TestAnnotationRoundTrip(t *testing.T) {
	src := newTestSegmentation(t, WithCubeEdge(2), WithDataset("ds"))
	writeTestCube(t, src)
	require.NoError(t, src.LoadMergelist(strings.NewReader(todoMergelist)))
	require.NoError(t, src.LoadJob(strings.NewReader("42\naxons\nw7\n/submit\n")))
	require.True(t, src.Session().Dirty())

	var buf bytes.Buffer
	require.NoError(t, src.SaveAnnotation(&buf))
	assert.False(t, src.Session().Dirty())

	dst := newTestSegmentation(t, WithCubeEdge(2))
	require.NoError(t, dst.LoadAnnotation(bytes.NewReader(buf.Bytes()), int64(buf.Len())))

	assert.Equal(t, 3, dst.Store().ObjectCount())
	assert.Equal(t, session.ModeMergeSimple, dst.Session().Mode())
	assert.Equal(t, 42, dst.Session().Job().ID)

	id, err := dst.SubobjectAt(model.Coordinate{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)

	var ml bytes.Buffer
	require.NoError(t, dst.SaveMergelist(&ml))
	assert.Equal(t, todoMergelist, ml.String())
}

func TestStoreAndFetchAnnotation(t *testing.T) {
	ctx := context.Background()

	s := newTestSegmentation(t)
	assert.ErrorIs(t, s.StoreAnnotation(ctx, "a.zip"), ErrNoBlobStore)
	assert.ErrorIs(t, s.FetchAnnotation(ctx, "a.zip"), ErrNoBlobStore)

	bs := blobstore.NewMemoryStore()
	src := newTestSegmentation(t, WithBlobStore(bs))
	require.NoError(t, src.LoadMergelist(strings.NewReader(todoMergelist)))
	require.NoError(t, src.StoreAnnotation(ctx, "jobs/a.zip"))
	assert.False(t, src.Session().Dirty())

	dst := newTestSegmentation(t, WithBlobStore(bs))
	require.NoError(t, dst.FetchAnnotation(ctx, "jobs/a.zip"))
	assert.Equal(t, 3, dst.Store().ObjectCount())

	assert.ErrorIs(t, dst.FetchAnnotation(ctx, "jobs/missing.zip"), ErrNotFound)
}

func TestAutoSaverStoresWhenDirty(t *testing.T) {
	bs := blobstore.NewMemoryStore()
	s := newTestSegmentation(t, WithBlobStore(bs))
	s.Session().SetFilename("auto.k.zip")

	saver := s.NewAutoSaver(0)
	assert.False(t, saver.SaveIfDirty(context.Background()))

	s.CreateAndSelectObject(model.Coordinate{})
	assert.True(t, saver.SaveIfDirty(context.Background()))

	names, err := bs.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"auto.k.zip"}, names)
}

func TestClear(t *testing.T) {
	s := newTestSegmentation(t, WithCubeEdge(2))
	writeTestCube(t, s)
	require.NoError(t, s.LoadMergelist(strings.NewReader(todoMergelist)))
	s.HoverSubobject(10)
	s.TouchObjects(10)

	s.Clear()

	assert.False(t, s.HasObjects())
	assert.Zero(t, s.HoveredSubobject())
	assert.Empty(t, s.TouchedObjects())

	cc := s.Loader().(*loader.CubeCache)
	require.NoError(t, cc.Sync(context.Background()))
	assert.Empty(t, cc.Modified())
}

func TestLoadPalette(t *testing.T) {
	s := newTestSegmentation(t)

	lut := make([]byte, 768)
	lut[5] = 200 // red of entry 5

	require.NoError(t, s.LoadPalette(bytes.NewReader(lut)))
	assert.Equal(t, model.RGB{R: 200}, s.Colors().DefaultColor(5))

	assert.ErrorIs(t, s.LoadPalette(strings.NewReader("[[1,2,3]]")), ErrInvalidPalette)
}
