package shape

import (
	"fmt"
	"math"

	"github.com/icexin/gocraft-pi/vector"
)

// sweeps lists, per axis, the slicing axis and the two directions spanning
// the cross-section circles perpendicular to it.
var sweeps = [3][3]vector.Vector{
	{vector.X, vector.Y, vector.Z},
	{vector.Y, vector.X, vector.Z},
	{vector.Z, vector.X, vector.Y},
}

// SphereIter draws a hollow sphere as stacks of circles.
type SphereIter struct {
	center vector.Vector
	radius int64

	axis   int
	offset int64
	cur    *CircleIter
	seen   vector.Set
	v      vector.Vector
}

// Sphere draws the shell of a sphere. The sphere is sliced into circles
// along each of the three axes in turn; one stack alone leaves holes near
// its poles on a discrete lattice.
func Sphere(center vector.Vector, radius int) (*SphereIter, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative sphere radius %d", vector.ErrValue, radius)
	}
	return &SphereIter{
		center: center,
		radius: int64(radius),
		offset: -int64(radius),
		seen:   vector.Set{},
	}, nil
}

func (it *SphereIter) Next() bool {
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
		if it.axis >= len(sweeps) {
			return false
		}
		it.cur = it.slice(it.axis, it.offset)
		it.offset++
		if it.offset > it.radius {
			it.axis++
			it.offset = -it.radius
		}
	}
}

func (it *SphereIter) Vector() vector.Vector {
	return it.v
}

// slice returns the cross-section circle offset along axis.
func (it *SphereIter) slice(axis int, offset int64) *CircleIter {
	normal, dir, plane := sweeps[axis][0], sweeps[axis][1], sweeps[axis][2]
	r := int64(math.RoundToEven(math.Sqrt(float64(it.radius*it.radius - offset*offset))))
	c, err := Circle(it.center.Add(normal.Mul(vector.Int(offset))), dir.Mul(vector.Int(r)), plane)
	if err != nil {
		// dir and plane are distinct axes
		panic(err)
	}
	return c
}
