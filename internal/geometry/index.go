package geometry

import (
	"github.com/tidwall/rtree"
	"github.com/twpayne/go-geom"
)

// Index is an in-memory R-tree over geometry bounding boxes. It is built once
// up front and treated as read-only during the parallel pipeline stages.
type Index[T any] struct {
	tr rtree.RTreeG[T]
}

// Insert adds an item under the bounding box of g.
func (ix *Index[T]) Insert(g geom.T, item T) {
	b := g.Bounds()
	ix.tr.Insert(
		[2]float64{b.Min(0), b.Min(1)},
		[2]float64{b.Max(0), b.Max(1)},
		item,
	)
}

// Search invokes fn for every item whose bounding box intersects the bounding
// box of g. Returning false from fn stops the scan.
func (ix *Index[T]) Search(g geom.T, fn func(item T) bool) {
	b := g.Bounds()
	ix.tr.Search(
		[2]float64{b.Min(0), b.Min(1)},
		[2]float64{b.Max(0), b.Max(1)},
		func(_, _ [2]float64, item T) bool { return fn(item) },
	)
}

// Len returns the number of indexed items.
func (ix *Index[T]) Len() int {
	return ix.tr.Len()
}
