package vector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rotate turns v by angle degrees about the axis through the origin in
// direction about, following the right-hand rule: X.Rotate(90, Y) is -Z.
func (v Vector) Rotate(angle float64, about Vector) (Vector, error) {
	if !about.Truthy() {
		return Vector{}, fmt.Errorf("%w: cannot rotate about the zero vector", ErrValue)
	}
	if hasNull(v) || hasNull(about) {
		return Vector{}, fmt.Errorf("%w: cannot rotate a null component", ErrType)
	}
	sin, cos := sincos(angle)
	p := v.Vec()
	if axis, sign, ok := axisOf(about); ok {
		return FromVec(rotateAxis(p, axis, sign*sin, cos)), nil
	}
	return FromVec(rotateGeneral(p, r3.Unit(about.Vec()), sin, cos)), nil
}

// RotateAround is Rotate about the line through origin instead of the
// origin.
func (v Vector) RotateAround(angle float64, about, origin Vector) (Vector, error) {
	if hasNull(origin) {
		return Vector{}, fmt.Errorf("%w: null rotation origin", ErrType)
	}
	r, err := v.Sub(origin).Rotate(angle, about)
	if err != nil {
		return Vector{}, err
	}
	return r.Add(origin), nil
}

// sincos is exact at multiples of 90 degrees.
func sincos(angle float64) (sin, cos float64) {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	switch a {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(a * math.Pi / 180)
}

// axisOf reports whether about points along a single axis, and which way.
func axisOf(about Vector) (axis int, sign float64, ok bool) {
	axis = -1
	for i := 0; i < 3; i++ {
		c := about.Axis(i)
		if !c.Truthy() {
			continue
		}
		if axis >= 0 {
			return 0, 0, false
		}
		axis, sign = i, 1
		if c.Compare(Int(0)) < 0 {
			sign = -1
		}
	}
	return axis, sign, axis >= 0
}

// rotateAxis rotates about +X, +Y or +Z. A negative axis is the same rotation
// with sin negated.
func rotateAxis(p r3.Vec, axis int, sin, cos float64) r3.Vec {
	switch axis {
	case 0:
		return r3.Vec{X: p.X, Y: p.Y*cos - p.Z*sin, Z: p.Y*sin + p.Z*cos}
	case 1:
		return r3.Vec{X: p.X*cos + p.Z*sin, Y: p.Y, Z: -p.X*sin + p.Z*cos}
	}
	return r3.Vec{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos, Z: p.Z}
}

// rotateGeneral is Rodrigues' rotation about the unit direction u:
// p cos + (u × p) sin + u (u·p)(1 - cos).
func rotateGeneral(p, u r3.Vec, sin, cos float64) r3.Vec {
	r := r3.Add(r3.Scale(cos, p), r3.Scale(sin, r3.Cross(u, p)))
	return r3.Add(r, r3.Scale(r3.Dot(u, p)*(1-cos), u))
}

func hasNull(v Vector) bool {
	return v.X.IsNull() || v.Y.IsNull() || v.Z.IsNull()
}
