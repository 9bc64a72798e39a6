// Package partition splits an image region into disjoint slabs and runs a
// region function on them concurrently.
package partition

import (
	"golang.org/x/sync/errgroup"

	"ndmorph/pkg/ndimage"
)

// Split divides region into at most parts slabs of nearly equal thickness
// along its last axis that is longer than one pixel. The slabs are disjoint
// and together cover region exactly.
func Split(region ndimage.Region, parts int) []ndimage.Region {
	if region.Empty() {
		return nil
	}
	axis := region.Dim() - 1
	for axis > 0 && region.Size[axis] == 1 {
		axis--
	}
	size := region.Size[axis]
	parts = max(1, min(parts, size))

	out := make([]ndimage.Region, 0, parts)
	start := region.Index[axis]
	for p := 0; p < parts; p++ {
		// spread the remainder over the first slabs
		n := size / parts
		if p < size%parts {
			n++
		}
		slab := region.Clone()
		slab.Index[axis] = start
		slab.Size[axis] = n
		out = append(out, slab)
		start += n
	}
	return out
}

// Run calls fn once per region with at most workers calls in flight and
// returns the first error.
func Run(regions []ndimage.Region, workers int, fn func(ndimage.Region) error) error {
	if len(regions) == 1 || workers == 1 {
		for _, r := range regions {
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, r := range regions {
		g.Go(func() error {
			return fn(r)
		})
	}
	return g.Wait()
}
