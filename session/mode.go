package session

import "strings"

// AnnotationMode is a set of capability bits plus a mode bit.
type AnnotationMode uint32

// Capability bits.
const (
	NodeEditing AnnotationMode = 1 << iota
	LinkedNodes
	SkeletonCycles
	Brush
	ObjectSelection
	ObjectMerge
)

// Modes.
const (
	ModeTracing         = 1<<6 | NodeEditing
	ModeTracingAdvanced = 1<<7 | NodeEditing | SkeletonCycles
	ModePaint           = 1<<8 | Brush | ObjectSelection
	ModeMerge           = 1<<9 | Brush | ObjectSelection | ObjectMerge
	ModeMergeSimple     = 1<<10 | Brush | ObjectMerge
	ModeMergeTracing    = 1<<11 | NodeEditing | LinkedNodes | SkeletonCycles
	ModeSelection       = 1<<12 | ModeTracingAdvanced | ObjectSelection
)

// Has reports whether all bits of flag are set.
func (m AnnotationMode) Has(flag AnnotationMode) bool {
	return m&flag == flag
}

var modeNames = []struct {
	mode AnnotationMode
	name string
}{
	{ModeSelection, "selection"},
	{ModeMergeTracing, "merge-tracing"},
	{ModeMergeSimple, "merge-simple"},
	{ModeMerge, "merge"},
	{ModePaint, "paint"},
	{ModeTracingAdvanced, "tracing-advanced"},
	{ModeTracing, "tracing"},
}

func (m AnnotationMode) String() string {
	for _, mn := range modeNames {
		if m == mn.mode {
			return mn.name
		}
	}

	var caps []string
	for _, c := range []struct {
		bit  AnnotationMode
		name string
	}{
		{NodeEditing, "node-editing"},
		{LinkedNodes, "linked-nodes"},
		{SkeletonCycles, "skeleton-cycles"},
		{Brush, "brush"},
		{ObjectSelection, "object-selection"},
		{ObjectMerge, "object-merge"},
	} {
		if m.Has(c.bit) {
			caps = append(caps, c.name)
		}
	}
	if len(caps) == 0 {
		return "none"
	}
	return strings.Join(caps, "|")
}
