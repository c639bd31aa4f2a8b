// Package vector holds the coordinate types shared by the client and the
// server: an immutable three component Vector, the lazy cuboid Range, and
// the per-axis AxisRange it is built from.
//
// Within the game world the X,Z plane is the ground and Y is height.
package vector

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector is an immutable (x, y, z) triple, used both as a point and as a
// displacement. Every operation returns a new Vector.
//
// Vectors are comparable, so they work as map keys; note that == and map
// lookups see Int(1) and Float(1) as different components while Equal does
// not.
type Vector struct {
	X, Y, Z Num
}

var (
	O   = New(0, 0, 0)
	X   = New(1, 0, 0)
	Y   = New(0, 1, 0)
	Z   = New(0, 0, 1)
	One = New(1, 1, 1)

	// Unset has every component null. As a slice bound it means "omitted".
	Unset = Of(Null, Null, Null)
)

func New(x, y, z int64) Vector {
	return Vector{Int(x), Int(y), Int(z)}
}

func NewFloat(x, y, z float64) Vector {
	return Vector{Float(x), Float(y), Float(z)}
}

func Of(x, y, z Num) Vector {
	return Vector{x, y, z}
}

func fromInts(a [3]int64) Vector {
	return New(a[0], a[1], a[2])
}

// FromVec converts a float vector back into a Vector of float components.
func FromVec(p r3.Vec) Vector {
	return NewFloat(p.X, p.Y, p.Z)
}

// Ints returns the components truncated to integers.
func (v Vector) Ints() [3]int64 {
	return [3]int64{v.X.Int64(), v.Y.Int64(), v.Z.Int64()}
}

func (v Vector) Floats() [3]float64 {
	return [3]float64{v.X.Float64(), v.Y.Float64(), v.Z.Float64()}
}

// Vec returns v as a float vector; null components become NaN.
func (v Vector) Vec() r3.Vec {
	return r3.Vec{X: v.X.Float64(), Y: v.Y.Float64(), Z: v.Z.Float64()}
}

// Axis returns component i, 0 for x through 2 for z.
func (v Vector) Axis(i int) Num {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("vector: axis %d out of range", i))
}

// Parse reads the "x,y,z" wire form with integer components.
func Parse(s string) (Vector, error) {
	return ParseAs(s, KindInt)
}

// ParseAs reads "x,y,z" with components of the given kind. Spaces after the
// commas are allowed.
func ParseAs(s string, kind Kind) (Vector, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return Vector{}, fmt.Errorf("%w: %q is not of the form x,y,z", ErrValue, s)
	}
	var c [3]Num
	for i, p := range parts {
		n, err := ParseNum(p, kind)
		if err != nil {
			return Vector{}, fmt.Errorf("parse vector %q: %w", s, err)
		}
		c[i] = n
	}
	return Vector{c[0], c[1], c[2]}, nil
}

func (v Vector) String() string {
	return v.X.String() + "," + v.Y.String() + "," + v.Z.String()
}

func (v Vector) Equal(o Vector) bool {
	return v.X.Equal(o.X) && v.Y.Equal(o.Y) && v.Z.Equal(o.Z)
}

// Compare orders vectors lexicographically by x, then y, then z.
func (v Vector) Compare(o Vector) int {
	if c := v.X.Compare(o.X); c != 0 {
		return c
	}
	if c := v.Y.Compare(o.Y); c != 0 {
		return c
	}
	return v.Z.Compare(o.Z)
}

func (v Vector) Less(o Vector) bool {
	return v.Compare(o) < 0
}

func (v Vector) Neg() Vector {
	return Vector{v.X.neg(), v.Y.neg(), v.Z.neg()}
}

func (v Vector) Pos() Vector {
	return v
}

func (v Vector) Abs() Vector {
	return Vector{v.X.abs(), v.Y.abs(), v.Z.abs()}
}

// Truthy is false only when every component is zero (or null).
func (v Vector) Truthy() bool {
	return v.X.Truthy() || v.Y.Truthy() || v.Z.Truthy()
}

func (v Vector) Dot(o Vector) Num {
	p := v.Mul(o)
	s, _ := p.X.apply(OpAdd, p.Y)
	s, _ = s.apply(OpAdd, p.Z)
	return s
}

// Cross is the right-handed cross product.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		sub(mul(v.Y, o.Z), mul(v.Z, o.Y)),
		sub(mul(v.Z, o.X), mul(v.X, o.Z)),
		sub(mul(v.X, o.Y), mul(v.Y, o.X)),
	}
}

func (v Vector) DistanceTo(o Vector) float64 {
	return v.Sub(o).Magnitude()
}

func (v Vector) Magnitude() float64 {
	return r3.Norm(v.Vec())
}

// Unit returns the vector scaled to magnitude one. The zero vector is
// returned unchanged.
func (v Vector) Unit() Vector {
	m := v.Magnitude()
	if m > 0 {
		return v.Div(Float(m))
	}
	return v
}

// AngleBetween returns the angle to o in degrees, within [0, 180].
func (v Vector) AngleBetween(o Vector) float64 {
	c := v.Unit().Dot(o.Unit()).Float64()
	// rounding can push the cosine of (anti)parallel vectors past ±1
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Project returns the scalar projection of v onto o.
func (v Vector) Project(o Vector) float64 {
	return v.Dot(o.Unit()).Float64()
}

func (v Vector) Floor() Vector {
	return Vector{v.X.toInt(math.Floor), v.Y.toInt(math.Floor), v.Z.toInt(math.Floor)}
}

func (v Vector) Ceil() Vector {
	return Vector{v.X.toInt(math.Ceil), v.Y.toInt(math.Ceil), v.Z.toInt(math.Ceil)}
}

func (v Vector) Trunc() Vector {
	return Vector{v.X.toInt(math.Trunc), v.Y.toInt(math.Trunc), v.Z.toInt(math.Trunc)}
}

// Round rounds every component half to even at ndigits decimal places.
// Float components stay floats; use Floor or Trunc for integer coordinates.
func (v Vector) Round(ndigits int) Vector {
	return Vector{v.X.round(ndigits), v.Y.round(ndigits), v.Z.round(ndigits)}
}

func (v Vector) WithX(x Num) Vector { v.X = x; return v }
func (v Vector) WithY(y Num) Vector { v.Y = y; return v }
func (v Vector) WithZ(z Num) Vector { v.Z = z; return v }

func mul(a, b Num) Num {
	r, err := a.apply(OpMul, b)
	if err != nil {
		panic(err)
	}
	return r
}

func sub(a, b Num) Num {
	r, err := a.apply(OpSub, b)
	if err != nil {
		panic(err)
	}
	return r
}

// Iterator is a single-pass sequence of vectors.
//
//	for it.Next() {
//		v := it.Vector()
//	}
type Iterator interface {
	Next() bool
	Vector() Vector
}

// Collect drains it into a slice.
func Collect(it Iterator) []Vector {
	var vs []Vector
	for it.Next() {
		vs = append(vs, it.Vector())
	}
	return vs
}

// Container is satisfied by anything that can answer membership, such as a
// Range or a Set.
type Container interface {
	Contains(v Vector) bool
}

// Set is a Container of explicit vectors. Membership is by value: a float
// component holding a whole number matches the same int.
type Set map[Vector]struct{}

func NewSet(vs ...Vector) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not already present.
func (s Set) Add(v Vector) bool {
	k := setKey(v)
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

func (s Set) Contains(v Vector) bool {
	_, ok := s[setKey(v)]
	return ok
}

func setKey(v Vector) Vector {
	return Vector{v.X.key(), v.Y.key(), v.Z.key()}
}
