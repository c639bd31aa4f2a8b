package shape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/icexin/gocraft-pi/vector"
)

// CircleIter draws a circle by walking its diameter and joining the arc
// points above and below each step.
type CircleIter struct {
	center r3.Vec
	axis   r3.Vec // unit vector along the radius
	perp   r3.Vec // unit vector in the plane, perpendicular to axis
	r      float64

	diam     *LineIter
	top, bot vector.Vector
	started  bool
	capped   bool
	queue    []*LineIter
	seen     vector.Set
	v        vector.Vector
}

// Circle draws a circle of radius |radius| around center, lying in the
// plane spanned by radius and plane. If plane is not perpendicular to
// radius only its perpendicular part is used. A plane parallel to radius
// spans no plane at all and is an error.
func Circle(center, radius, plane vector.Vector) (*CircleIter, error) {
	it := &CircleIter{
		center: center.Vec(),
		r:      radius.Magnitude(),
		seen:   vector.Set{},
	}
	if it.r == 0 {
		c := round(it.center)
		it.diam = Line(c, c)
		return it, nil
	}
	r := radius.Vec()
	// (r × p) × r is the part of p perpendicular to r, scaled by |r|²
	perp := r3.Cross(r3.Cross(r, plane.Vec()), r)
	if !(r3.Norm(perp) >= 1e-9*it.r*it.r) {
		return nil, fmt.Errorf("%w: circle plane %v is parallel to radius %v", vector.ErrValue, plane, radius)
	}
	it.axis = r3.Unit(r)
	it.perp = r3.Unit(perp)
	it.diam = Line(round(r3.Sub(it.center, r)), round(r3.Add(it.center, r)))
	return it, nil
}

func (it *CircleIter) Next() bool {
	for {
		for len(it.queue) > 0 {
			l := it.queue[0]
			if !l.Next() {
				it.queue = it.queue[1:]
				continue
			}
			if v := l.Vector(); it.seen.Add(v) {
				it.v = v
				return true
			}
		}
		if !it.diam.Next() {
			if it.started && !it.capped {
				it.capped = true
				it.queue = append(it.queue, Line(it.top, it.bot))
				continue
			}
			return false
		}
		top, bot := it.chord(it.diam.Vector())
		if !it.started {
			it.started = true
			it.queue = append(it.queue, Line(top, bot))
		} else {
			it.queue = append(it.queue, Line(it.top, top), Line(it.bot, bot))
		}
		it.top, it.bot = top, bot
	}
}

func (it *CircleIter) Vector() vector.Vector {
	return it.v
}

// chord returns the arc points either side of q, a point on the diameter,
// at the half-chord length sqrt(r² - d²).
func (it *CircleIter) chord(q vector.Vector) (top, bot vector.Vector) {
	p := q.Vec()
	d := r3.Dot(r3.Sub(p, it.center), it.axis)
	h := r3.Scale(math.Sqrt(math.Max(0, it.r*it.r-d*d)), it.perp)
	return round(r3.Add(p, h)), round(r3.Sub(p, h))
}

func round(p r3.Vec) vector.Vector {
	return vector.New(
		int64(math.RoundToEven(p.X)),
		int64(math.RoundToEven(p.Y)),
		int64(math.RoundToEven(p.Z)))
}
