package segmerge_test

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/segmerge"
	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/model"
)

// Example_merge demonstrates merging two objects picked by subobject id.
func Example_merge() {
	seg := segmerge.New()
	defer seg.Close()

	seg.SelectObjectFromSubobject(17, model.Coordinate{X: 10, Y: 20, Z: 5})
	seg.SelectObjectFromSubobject(23, model.Coordinate{X: 11, Y: 20, Z: 5})
	seg.MergeSelected()

	obj := seg.Store().Object(0)
	fmt.Println(seg.Store().ObjectCount(), obj.Subobjects())
	// Output: 1 [17 23]
}

// Example_mergelist demonstrates loading and saving the mergelist format.
func Example_mergelist() {
	seg := segmerge.New()
	defer seg.Close()

	in := "1 0 0 4 5\n10 20 30\nneuron\naxon\n"
	if err := seg.LoadMergelist(strings.NewReader(in)); err != nil {
		log.Fatal(err)
	}

	seg.ChangeCategory(0, "myelin")

	var out bytes.Buffer
	if err := seg.SaveMergelist(&out); err != nil {
		log.Fatal(err)
	}
	fmt.Print(out.String())
	// Output:
	// 1 0 0 4 5
	// 10 20 30
	// myelin
	// axon
}

// Example_events demonstrates observing changes.
func Example_events() {
	seg := segmerge.New()
	defer seg.Close()

	seg.Subscribe(func(e engine.Event) {
		fmt.Println(e.Kind)
	})

	seg.CreateAndSelectObject(model.Coordinate{})
	// Output:
	// selection-reset
	// before-append
	// appended
	// selection-changed
}
