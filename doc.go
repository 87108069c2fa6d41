// Package segmerge tracks how raw segmentation labels are grouped into
// annotated objects.
//
// A volume segmentation assigns every voxel a label, the subobject id.
// Annotators merge subobjects into objects (a neuron, a mitochondrion),
// split wrongly merged ones again and tag objects with a category, a
// comment and a todo flag. Segmentation is the entry point combining
//
//   - engine.Store: objects, subobjects, selection and merge/unmerge
//   - color.Resolver: overlay color of every label
//   - loader.Loader: label lookup at voxel positions
//   - session.Session: annotation mode, job ticket and unsaved changes
//
// # Quick Start
//
//	seg := segmerge.New(segmerge.WithLogger(segmerge.NewTextLogger(slog.LevelInfo)))
//	defer seg.Close()
//
//	if err := seg.LoadMergelistFile("mergelist.txt"); err != nil {
//	    log.Fatal(err)
//	}
//
//	seg.ClearSelection()
//	seg.SelectObjectFromSubobject(17, model.Coordinate{X: 10, Y: 20, Z: 5})
//	seg.SelectObjectFromSubobject(23, model.Coordinate{X: 11, Y: 20, Z: 5})
//	seg.MergeSelected()
//
// # Persistence
//
// Mergelists are line-oriented text (package mergelist). Annotation
// archives bundle the mergelist, the job ticket and edited cubes in a zip
// file (package annotation) and can be kept in any blobstore.Store:
//
//	store, _ := s3.New(ctx, "annotations", s3.WithPrefix("campaign-7/"))
//	seg := segmerge.New(segmerge.WithBlobStore(store))
//	err := seg.StoreAnnotation(ctx, "job-42.k.zip")
//
// # Job Mode
//
// Loading an active job ticket switches the session to merge-simple mode.
// StartJobMode then dims the overlay, hides unselected objects and selects
// the first todo; SelectNextTodo and MarkSelectedForSplitting walk the list.
//
// # Events
//
// Observers registered with Subscribe receive engine.Event values
// synchronously after each change. Observers must not issue commands.
//
// # Observability
//
// Logging goes through Logger (log/slog); metrics through MetricsCollector,
// with a Prometheus adapter in package metrics/prometheus.
package segmerge
