package annotation

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/loader"
)

// Store saves c as blob name in bs.
func Store(ctx context.Context, bs blobstore.Store, name string, c *Contents) error {
	var buf bytes.Buffer
	if err := Save(&buf, c); err != nil {
		return err
	}
	if err := bs.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Fetch loads blob name from bs.
func Fetch(ctx context.Context, bs blobstore.Store, name string, opts ...LoadOption) (*Contents, error) {
	data, err := bs.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return Load(bytes.NewReader(data), int64(len(data)), opts...)
}

func sortedKeys(cubes map[loader.CubeKey][]byte) []loader.CubeKey {
	return slices.SortedFunc(maps.Keys(cubes), loader.CompareKeys)
}
