package segmerge

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/segmerge/annotation"
	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/codec"
	"github.com/hupe1980/segmerge/color"
	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/internal/resource"
	"github.com/hupe1980/segmerge/loader"
	"github.com/hupe1980/segmerge/mergelist"
	"github.com/hupe1980/segmerge/model"
	"github.com/hupe1980/segmerge/session"
)

// JobAlpha is the overlay opacity used in job mode.
const JobAlpha uint8 = 37

// Load and save kinds reported to the metrics collector.
const (
	KindMergelist  = "mergelist"
	KindJob        = "job"
	KindAnnotation = "annotation"
)

// Segmentation ties together the object store, the color resolver, the
// session state and the voxel loader.
//
// Like engine.Store it is single-writer: commands must not be issued
// concurrently. Lock and Unlock serialize callers with an AutoSaver.
type Segmentation struct {
	mu sync.Mutex

	store   *engine.Store
	colors  *color.Resolver
	session *session.Session
	loader  loader.Loader
	cubes   *loader.CubeCache
	ownsCC  bool
	blobs   blobstore.Store
	rc      *resource.Controller

	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
	dataset string

	hovered uint64
	touched uint64
}

// New creates an empty segmentation.
func New(optFns ...Option) *Segmentation {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		alpha:            color.DefaultAlpha,
		dataset:          "segmentation",
	}
	for _, fn := range optFns {
		fn(&o)
	}

	s := &Segmentation{
		session: session.New(),
		blobs:   o.blobs,
		rc:      resource.NewController(o.limits),
		codec:   o.codec,
		logger:  o.logger,
		metrics: o.metricsCollector,
		dataset: o.dataset,
	}

	s.loader = o.loader
	if s.loader == nil {
		capacity := o.limits.CacheBytes
		if capacity <= 0 {
			capacity = DefaultCubeCacheBytes
		}
		var ccOpts []loader.Option
		ccOpts = append(ccOpts,
			loader.WithController(s.rc),
			loader.WithLogger(o.logger.Logger),
		)
		if o.cubeEdge > 0 {
			ccOpts = append(ccOpts, loader.WithCubeEdge(o.cubeEdge))
		}
		s.loader = loader.NewCubeCache(capacity, ccOpts...)
		s.ownsCC = true
	}
	if cc, ok := s.loader.(*loader.CubeCache); ok {
		s.cubes = cc
	}

	storeOpts := []engine.Option{
		engine.WithLogger(o.logger.Logger),
		engine.WithCacheClearer(s.loader),
	}
	if o.categories != nil {
		storeOpts = append(storeOpts, engine.WithCategories(o.categories...))
	}
	s.store = engine.New(storeOpts...)

	colorOpts := []color.Option{
		color.WithAlpha(o.alpha),
		color.WithBackgroundID(o.background),
	}
	if o.palette != nil {
		colorOpts = append(colorOpts, color.WithPalette(o.palette))
	}
	s.colors = color.NewResolver(s.store, colorOpts...)
	s.touched = o.background

	return s
}

// Lock acquires the lock taken by the AutoSaver while it saves.
func (s *Segmentation) Lock() { s.mu.Lock() }

// Unlock releases the lock taken with Lock.
func (s *Segmentation) Unlock() { s.mu.Unlock() }

// Close stops the built-in loader.
func (s *Segmentation) Close() {
	if s.ownsCC {
		s.cubes.Close()
	}
}

// Store returns the underlying object store.
func (s *Segmentation) Store() *engine.Store { return s.store }

// Colors returns the color resolver.
func (s *Segmentation) Colors() *color.Resolver { return s.colors }

// Session returns the session state.
func (s *Segmentation) Session() *session.Session { return s.session }

// Loader returns the voxel loader.
func (s *Segmentation) Loader() loader.Loader { return s.loader }

// Subscribe registers an observer for change notifications.
func (s *Segmentation) Subscribe(fn engine.Observer) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

// HasObjects reports whether the store holds any object.
func (s *Segmentation) HasObjects() bool { return s.store.ObjectCount() > 0 }

// Clear drops all objects and detaches the cached cubes of the loader.
func (s *Segmentation) Clear() {
	s.store.Clear()
	s.hovered = 0
	s.touched = s.colors.BackgroundID()
}

// CreateAndSelectObject replaces the selection with a new object holding a
// fresh subobject id.
func (s *Segmentation) CreateAndSelectObject(pos model.Coordinate) *engine.Object {
	s.store.ClearObjectSelection()

	obj, err := s.store.CreateObject(pos, []uint64{s.store.HighestSubobjectID() + 1})
	if err != nil {
		// A fresh subobject id and an automatic object id cannot collide.
		panic(err)
	}
	s.store.SelectObject(obj.Index())
	s.session.MarkDirty()

	return obj
}

// SelectObject selects the object at index.
func (s *Segmentation) SelectObject(index uint64) { s.store.SelectObject(index) }

// UnselectObject unselects the object at index.
func (s *Segmentation) UnselectObject(index uint64) { s.store.UnselectObject(index) }

// ClearSelection unselects all objects.
func (s *Segmentation) ClearSelection() { s.store.ClearObjectSelection() }

// SelectObjectFromSubobject selects the single-subobject object of id,
// creating it at pos when needed.
func (s *Segmentation) SelectObjectFromSubobject(id uint64, pos model.Coordinate) *engine.Object {
	return s.store.SelectObjectFromSubobject(id, pos)
}

// SubobjectAt reads the subobject id at pos from the loader.
func (s *Segmentation) SubobjectAt(pos model.Coordinate) (uint64, error) {
	id, err := s.loader.ReadSubobjectID(pos)
	return id, translateError(err)
}

// SelectAt selects the object of the subobject under pos. Clicking the
// background selects nothing.
func (s *Segmentation) SelectAt(pos model.Coordinate) (*engine.Object, error) {
	id, err := s.SubobjectAt(pos)
	if err != nil {
		return nil, err
	}
	if id == s.colors.BackgroundID() {
		return nil, nil
	}
	return s.store.SelectObjectFromSubobject(id, pos), nil
}

// SubobjectIDOfFirstSelected returns the first subobject of the front
// selected object and moves that object to pos.
func (s *Segmentation) SubobjectIDOfFirstSelected(pos model.Coordinate) (uint64, error) {
	return s.store.SubobjectIDOfFirstSelectedObject(pos)
}

// MergeSelected merges the active objects into the front one.
func (s *Segmentation) MergeSelected() int {
	start := time.Now()
	merged := max(s.store.ActiveCount()-1, 0)

	s.store.MergeActive()
	if merged > 0 {
		s.session.MarkDirty()
	}

	s.metrics.RecordMerge(merged, time.Since(start), nil)
	s.logger.LogMerge(context.Background(), merged, s.store.ObjectCount())

	return merged
}

// UnmergeSelected splits the non-front selected objects off the front one.
// With a single selected object it is deleted instead.
func (s *Segmentation) UnmergeSelected(pos model.Coordinate) int {
	start := time.Now()
	split := max(s.store.SelectedCount()-1, 0)
	if s.store.SelectedCount() == 1 {
		split = 1
	}

	s.store.UnmergeSelected(pos)
	if split > 0 {
		s.session.MarkDirty()
	}

	s.metrics.RecordUnmerge(split, time.Since(start), nil)
	s.logger.LogUnmerge(context.Background(), split, s.store.TodosLeft())

	return split
}

// DeleteSelected removes the active objects.
func (s *Segmentation) DeleteSelected() int {
	start := time.Now()
	count := s.store.ActiveCount()

	s.store.DeleteActive()
	if count > 0 {
		s.session.MarkDirty()
	}

	s.metrics.RecordDelete(count, time.Since(start))
	s.logger.LogDelete(context.Background(), count)

	return count
}

// ChangeCategory sets the category of the object at index.
func (s *Segmentation) ChangeCategory(index uint64, category string) {
	s.store.ChangeCategory(index, category)
	s.session.MarkDirty()
}

// ChangeComment sets the comment of the object at index.
func (s *Segmentation) ChangeComment(index uint64, comment string) {
	s.store.ChangeComment(index, comment)
	s.session.MarkDirty()
}

// ChangeColor overrides the color of the object at index.
func (s *Segmentation) ChangeColor(index uint64, c model.RGB) {
	s.store.ChangeColor(index, c)
	s.session.MarkDirty()
}

// RestoreDefaultColorForSelected drops the color overrides of all selected
// objects. It reports whether anything was selected.
func (s *Segmentation) RestoreDefaultColorForSelected() bool {
	selected := s.store.Selected()
	if len(selected) == 0 {
		return false
	}

	restore := s.store.Mute()
	for _, index := range selected {
		s.store.ResetColor(index)
	}
	restore()

	s.store.Emit(engine.Event{Kind: engine.EventReset})
	s.session.MarkDirty()

	return true
}

// PlaceCommentForSelected sets the comment of the only selected object. It
// reports false unless exactly one object is selected.
func (s *Segmentation) PlaceCommentForSelected(comment string) bool {
	if s.store.SelectedCount() != 1 {
		return false
	}

	obj, _ := s.store.FrontSelected()
	s.ChangeComment(obj.Index(), comment)

	return true
}

// SetRenderOnlySelected toggles drawing of unselected objects.
func (s *Segmentation) SetRenderOnlySelected(on bool) {
	s.colors.SetRenderOnlySelected(on)
	s.store.Emit(engine.Event{Kind: engine.EventRenderOnlySelectedChanged, Flag: on})
}

// SetBackgroundID sets the subobject id drawn transparent.
func (s *Segmentation) SetBackgroundID(id uint64) {
	s.colors.SetBackgroundID(id)
	s.store.Emit(engine.Event{Kind: engine.EventBackgroundChanged, SubobjectID: id})
}

// SetAlpha sets the overlay opacity.
func (s *Segmentation) SetAlpha(alpha uint8) { s.colors.SetAlpha(alpha) }

// LoadPalette replaces the overlay lookup table from r.
func (s *Segmentation) LoadPalette(r io.Reader) error {
	p, err := color.LoadPalette(r, s.codec)
	if err != nil {
		return err
	}
	s.colors.SetPalette(p)
	s.store.Emit(engine.Event{Kind: engine.EventReset})
	return nil
}

// ColorForSubobject returns the overlay color of a subobject id.
func (s *Segmentation) ColorForSubobject(id uint64) model.RGBA {
	return s.colors.ColorForSubobject(id)
}

// ColorAt returns the overlay color of the voxel at pos.
func (s *Segmentation) ColorAt(pos model.Coordinate) (model.RGBA, error) {
	id, err := s.SubobjectAt(pos)
	if err != nil {
		return model.Transparent, err
	}
	return s.colors.ColorForSubobject(id), nil
}

// HoveredSubobject returns the last hovered subobject id.
func (s *Segmentation) HoveredSubobject() uint64 { return s.hovered }

// HoverSubobject records the subobject under the cursor. Observers get the
// indices of the objects containing it when the id changes.
func (s *Segmentation) HoverSubobject(id uint64) {
	if id == s.hovered {
		return
	}
	s.hovered = id

	var overlap []uint64
	if sub, ok := s.store.Subobject(id); ok {
		overlap = sub.Objects()
	}

	s.store.Emit(engine.Event{Kind: engine.EventHoverChanged, SubobjectID: id, Overlap: overlap})
}

// TouchObjects marks the objects containing id as touched.
func (s *Segmentation) TouchObjects(id uint64) {
	s.touched = id
	s.store.Emit(engine.Event{Kind: engine.EventTouchedReset})
}

// UntouchObjects resets the touched subobject to the background.
func (s *Segmentation) UntouchObjects() {
	s.touched = s.colors.BackgroundID()
	s.store.Emit(engine.Event{Kind: engine.EventTouchedReset})
}

// TouchedObjects returns the objects containing the touched subobject.
func (s *Segmentation) TouchedObjects() []*engine.Object {
	sub, ok := s.store.Subobject(s.touched)
	if !ok {
		return nil
	}

	indices := sub.Objects()
	objs := make([]*engine.Object, 0, len(indices))
	for _, index := range indices {
		objs = append(objs, s.store.Object(index))
	}
	return objs
}

// TodoList returns the indices of objects still marked todo, ordered by id.
func (s *Segmentation) TodoList() []uint64 { return s.store.TodoList() }

// TodosLeft returns the number of objects marked todo.
func (s *Segmentation) TodosLeft() int { return s.store.TodosLeft() }

// SelectNextTodo finishes the current todo and selects the next one.
func (s *Segmentation) SelectNextTodo() (*engine.Object, bool) {
	obj, ok := s.store.SelectNextTodo()
	s.session.MarkDirty()
	return obj, ok
}

// SelectPrevTodo reselects the last finished todo.
func (s *Segmentation) SelectPrevTodo() (*engine.Object, bool) {
	obj, ok := s.store.SelectPrevTodo()
	s.session.MarkDirty()
	return obj, ok
}

// MarkSelectedForSplitting comments the front selected object as a split
// request and moves on to the next todo.
func (s *Segmentation) MarkSelectedForSplitting(pos model.Coordinate) (*engine.Object, bool) {
	obj, ok := s.store.MarkSelectedForSplitting(pos)
	s.session.MarkDirty()
	return obj, ok
}

// StartJobMode lowers the overlay opacity, selects the first todo and
// hides unselected objects.
func (s *Segmentation) StartJobMode() {
	s.colors.SetAlpha(JobAlpha)
	s.store.SelectNextTodo()
	s.SetRenderOnlySelected(true)
}

// CheckInvariants verifies the internal consistency of the store.
func (s *Segmentation) CheckInvariants() error { return s.store.CheckInvariants() }

// LoadMergelist adds the objects of a mergelist. On error nothing is added.
func (s *Segmentation) LoadMergelist(r io.Reader) error {
	start := time.Now()
	before := s.store.ObjectCount()

	err := mergelist.Decode(r, s.store)
	loaded := s.store.ObjectCount() - before
	if err == nil && loaded > 0 {
		s.session.MarkDirty()
	}

	s.metrics.RecordLoad(KindMergelist, loaded, time.Since(start), err)
	s.logger.LogLoad(context.Background(), KindMergelist, loaded, err)

	return err
}

// SaveMergelist writes all objects as a mergelist.
func (s *Segmentation) SaveMergelist(w io.Writer) error {
	start := time.Now()

	err := mergelist.Encode(w, s.store)

	s.metrics.RecordSave(KindMergelist, s.store.ObjectCount(), time.Since(start), err)
	s.logger.LogSave(context.Background(), KindMergelist, s.store.ObjectCount(), err)

	return err
}

// LoadMergelistFile loads a plain, lz4 or zstd mergelist file.
func (s *Segmentation) LoadMergelistFile(path string) error {
	start := time.Now()
	before := s.store.ObjectCount()

	err := mergelist.LoadFile(path, s.store)
	loaded := s.store.ObjectCount() - before
	if err == nil && loaded > 0 {
		s.session.MarkDirty()
	}

	s.metrics.RecordLoad(KindMergelist, loaded, time.Since(start), err)
	s.logger.WithFile(path).LogLoad(context.Background(), KindMergelist, loaded, err)

	return err
}

// SaveMergelistFile writes a mergelist file framed by its extension.
func (s *Segmentation) SaveMergelistFile(path string) error {
	start := time.Now()

	err := mergelist.SaveFile(path, s.store)

	s.metrics.RecordSave(KindMergelist, s.store.ObjectCount(), time.Since(start), err)
	s.logger.WithFile(path).LogSave(context.Background(), KindMergelist, s.store.ObjectCount(), err)

	return err
}

// LoadJob reads a job ticket and applies it to the session.
func (s *Segmentation) LoadJob(r io.Reader) error {
	start := time.Now()

	job, err := mergelist.DecodeJob(r)
	if err == nil {
		s.session.ApplyJob(job)
	}

	s.metrics.RecordLoad(KindJob, 0, time.Since(start), err)
	s.logger.LogLoad(context.Background(), KindJob, 0, err)

	return err
}

// SaveJob writes the session's job ticket.
func (s *Segmentation) SaveJob(w io.Writer) error {
	start := time.Now()

	err := mergelist.EncodeJob(w, s.session.Job())

	s.metrics.RecordSave(KindJob, 0, time.Since(start), err)
	s.logger.LogSave(context.Background(), KindJob, 0, err)

	return err
}

func (s *Segmentation) contents() (*annotation.Contents, error) {
	c := &annotation.Contents{Dataset: s.dataset}

	if s.HasObjects() {
		var buf bytes.Buffer
		if err := mergelist.Encode(&buf, s.store); err != nil {
			return nil, err
		}
		c.Mergelist = buf.Bytes()
	}

	if s.session.Mode().Has(session.ModeMergeSimple) {
		job := s.session.Job()
		c.Job = &job
	}

	if s.cubes != nil {
		c.Cubes = s.cubes.Modified()
	}

	return c, nil
}

// SaveAnnotation writes an annotation archive and clears the dirty state.
func (s *Segmentation) SaveAnnotation(w io.Writer) error {
	start := time.Now()
	gen := s.session.Generation()

	c, err := s.contents()
	if err == nil {
		err = annotation.Save(w, c)
	}
	if err == nil {
		s.session.MarkSavedAt(gen)
	}

	s.metrics.RecordSave(KindAnnotation, s.store.ObjectCount(), time.Since(start), err)
	s.logger.LogSave(context.Background(), KindAnnotation, s.store.ObjectCount(), err)

	return err
}

// LoadAnnotation reads an archive: cubes first, then the mergelist, then
// the job ticket. Objects are added to the existing ones.
func (s *Segmentation) LoadAnnotation(r io.ReaderAt, size int64) error {
	start := time.Now()
	before := s.store.ObjectCount()

	c, err := annotation.Load(r, size, annotation.WithController(s.rc))
	if err == nil {
		err = s.apply(c)
	}
	loaded := s.store.ObjectCount() - before

	s.metrics.RecordLoad(KindAnnotation, loaded, time.Since(start), err)
	s.logger.LogLoad(context.Background(), KindAnnotation, loaded, err)

	return err
}

// apply installs archive contents. Cubes are checked before the mergelist
// is decoded and supplied only after it loaded, so a failed load changes
// nothing.
func (s *Segmentation) apply(c *annotation.Contents) error {
	var keys []loader.CubeKey
	if s.cubes != nil {
		keys = slices.SortedFunc(maps.Keys(c.Cubes), loader.CompareKeys)
		for _, key := range keys {
			if err := s.cubes.CheckCube(key, c.Cubes[key]); err != nil {
				return err
			}
		}
	}

	if c.Mergelist != nil {
		if err := mergelist.Decode(bytes.NewReader(c.Mergelist), s.store); err != nil {
			return err
		}
	}

	for _, key := range keys {
		if err := s.cubes.Supply(key, c.Cubes[key]); err != nil {
			return err
		}
	}

	if c.Job != nil {
		s.session.ApplyJob(*c.Job)
	}

	return nil
}

// StoreAnnotation saves an archive as blob name in the configured store.
func (s *Segmentation) StoreAnnotation(ctx context.Context, name string) error {
	if s.blobs == nil {
		return ErrNoBlobStore
	}

	start := time.Now()
	gen := s.session.Generation()

	c, err := s.contents()
	if err == nil {
		var buf bytes.Buffer
		if err = annotation.Save(&buf, c); err == nil {
			if err = s.rc.WaitUpload(ctx, buf.Len()); err == nil {
				err = s.blobs.Put(ctx, name, buf.Bytes())
			}
		}
	}
	if err == nil {
		s.session.MarkSavedAt(gen)
	}

	s.metrics.RecordSave(KindAnnotation, s.store.ObjectCount(), time.Since(start), err)
	s.logger.WithFile(name).LogSave(ctx, KindAnnotation, s.store.ObjectCount(), err)

	return err
}

// FetchAnnotation loads blob name from the configured store.
func (s *Segmentation) FetchAnnotation(ctx context.Context, name string) error {
	if s.blobs == nil {
		return ErrNoBlobStore
	}

	start := time.Now()
	before := s.store.ObjectCount()

	c, err := annotation.Fetch(ctx, s.blobs, name, annotation.WithController(s.rc))
	if err == nil {
		err = s.apply(c)
	}
	loaded := s.store.ObjectCount() - before

	s.metrics.RecordLoad(KindAnnotation, loaded, time.Since(start), err)
	s.logger.WithFile(name).LogLoad(ctx, KindAnnotation, loaded, err)

	return translateError(err)
}

// NewAutoSaver returns an AutoSaver storing the session's archive in the
// configured blob store whenever there are unsaved changes. Saves run under
// Lock; callers issuing commands while the saver runs must hold it too.
func (s *Segmentation) NewAutoSaver(interval time.Duration) *session.AutoSaver {
	return session.NewAutoSaver(s.session, func(ctx context.Context) error {
		s.Lock()
		defer s.Unlock()
		return s.StoreAnnotation(ctx, s.session.Filename())
	}, interval, session.WithLogger(s.logger.Logger))
}
