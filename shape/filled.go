package shape

import (
	"sort"

	"github.com/icexin/gocraft-pi/vector"
)

// FilledIter fills the hull implied by a set of points.
type FilledIter struct {
	points []vector.Vector
	i      int
	cur    *LineIter
	seen   vector.Set
	v      vector.Vector
}

// Filled sorts points and joins every consecutive pair with Line, which
// fills a convex outline such as the output of Lines. Each coordinate is
// emitted once.
func Filled(points []vector.Vector) *FilledIter {
	ps := make([]vector.Vector, len(points))
	for i, p := range points {
		ps[i] = integer(p)
	}
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Less(ps[j])
	})
	return &FilledIter{points: ps, seen: vector.Set{}}
}

func (it *FilledIter) Next() bool {
	for {
		if it.cur != nil {
			for it.cur.Next() {
				if v := it.cur.Vector(); it.seen.Add(v) {
					it.v = v
					return true
				}
			}
			it.cur = nil
		}
		switch {
		case it.i+1 < len(it.points):
			it.cur = Line(it.points[it.i], it.points[it.i+1])
		case it.i < len(it.points) && len(it.points) == 1:
			it.cur = Line(it.points[0], it.points[0])
		default:
			return false
		}
		it.i++
	}
}

func (it *FilledIter) Vector() vector.Vector {
	return it.v
}
