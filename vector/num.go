package vector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the numeric type held by a Num.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNull:
		return "null"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Num is a single vector component: an integer, a float, or null. The zero
// value is the integer 0.
//
// Arithmetic follows the usual numeric tower: two integers stay integral
// (except for true division), anything touching a float becomes a float, and
// floor division and modulo round toward negative infinity.
type Num struct {
	kind Kind
	i    int64
	f    float64
}

// Null is the absent component. It is mostly useful as an omitted slice
// bound.
var Null = Num{kind: KindNull}

func Int(i int64) Num {
	return Num{kind: KindInt, i: i}
}

func Float(f float64) Num {
	return Num{kind: KindFloat, f: f}
}

func (n Num) Kind() Kind   { return n.kind }
func (n Num) IsNull() bool { return n.kind == KindNull }

// Int64 returns the component truncated toward zero. Null yields 0.
func (n Num) Int64() int64 {
	switch n.kind {
	case KindInt:
		return n.i
	case KindFloat:
		return int64(n.f)
	}
	return 0
}

// Float64 returns the component as a float. Null yields NaN.
func (n Num) Float64() float64 {
	switch n.kind {
	case KindInt:
		return float64(n.i)
	case KindFloat:
		return n.f
	}
	return math.NaN()
}

// Integral reports whether n holds a whole number.
func (n Num) Integral() bool {
	switch n.kind {
	case KindInt:
		return true
	case KindFloat:
		return !math.IsInf(n.f, 0) && n.f == math.Trunc(n.f)
	}
	return false
}

// key folds whole-number floats into ints so that equal values share a map
// key.
func (n Num) key() Num {
	if n.kind == KindFloat && n.Integral() && math.Abs(n.f) < 1<<63 {
		return Int(int64(n.f))
	}
	return n
}

func (n Num) Truthy() bool {
	switch n.kind {
	case KindInt:
		return n.i != 0
	case KindFloat:
		return n.f != 0
	}
	return false
}

// String formats integers bare and floats with a decimal point (or an
// exponent), so 2 and 2.0 stay distinguishable on the wire.
func (n Num) String() string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindNull:
		return "<nil>"
	}
	f := n.f
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseNum parses a single component of the given kind. Surrounding spaces
// are ignored.
func ParseNum(s string, kind Kind) (Num, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Num{}, fmt.Errorf("%w: %q is not an integer", ErrValue, s)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Num{}, fmt.Errorf("%w: %q is not a number", ErrValue, s)
		}
		return Float(f), nil
	}
	return Num{}, fmt.Errorf("%w: cannot parse %v components", ErrValue, kind)
}

// Compare orders numerically; null sorts before every number.
func (n Num) Compare(o Num) int {
	switch {
	case n.kind == KindNull && o.kind == KindNull:
		return 0
	case n.kind == KindNull:
		return -1
	case o.kind == KindNull:
		return 1
	case n.kind == KindInt && o.kind == KindInt:
		switch {
		case n.i < o.i:
			return -1
		case n.i > o.i:
			return 1
		}
		return 0
	}
	a, b := n.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal compares by value, so Int(1) equals Float(1).
func (n Num) Equal(o Num) bool {
	if n.kind == KindNull || o.kind == KindNull {
		return n.kind == o.kind
	}
	if n.kind == KindInt && o.kind == KindInt {
		return n.i == o.i
	}
	return n.Float64() == o.Float64()
}

var errZeroDivision = fmt.Errorf("%w: division by zero", ErrValue)

func (n Num) apply(op Op, o Num) (Num, error) {
	if n.kind == KindNull || o.kind == KindNull {
		return Num{}, fmt.Errorf("%w: %v with a null component", ErrType, op)
	}
	if op.bitwise() {
		if n.kind != KindInt || o.kind != KindInt {
			return Num{}, fmt.Errorf("%w: %v needs integer components", ErrType, op)
		}
		x, y := n.i, o.i
		switch op {
		case OpLsh, OpRsh:
			if y < 0 {
				return Num{}, fmt.Errorf("%w: negative shift count", ErrValue)
			}
			if op == OpLsh {
				return Int(x << uint64(y)), nil
			}
			return Int(x >> uint64(y)), nil
		case OpAnd:
			return Int(x & y), nil
		case OpXor:
			return Int(x ^ y), nil
		}
		return Int(x | y), nil
	}
	if n.kind == KindInt && o.kind == KindInt {
		x, y := n.i, o.i
		switch op {
		case OpAdd:
			return Int(x + y), nil
		case OpSub:
			return Int(x - y), nil
		case OpMul:
			return Int(x * y), nil
		case OpDiv:
			if y == 0 {
				return Num{}, errZeroDivision
			}
			return Float(float64(x) / float64(y)), nil
		case OpFloorDiv:
			if y == 0 {
				return Num{}, errZeroDivision
			}
			return Int(floorDiv(x, y)), nil
		case OpMod:
			if y == 0 {
				return Num{}, errZeroDivision
			}
			return Int(floorMod(x, y)), nil
		case OpPow:
			if y >= 0 {
				return Int(ipow(x, y)), nil
			}
			if x == 0 {
				return Num{}, errZeroDivision
			}
			return Float(math.Pow(float64(x), float64(y))), nil
		}
	}
	x, y := n.Float64(), o.Float64()
	switch op {
	case OpAdd:
		return Float(x + y), nil
	case OpSub:
		return Float(x - y), nil
	case OpMul:
		return Float(x * y), nil
	case OpDiv:
		if y == 0 {
			return Num{}, errZeroDivision
		}
		return Float(x / y), nil
	case OpFloorDiv:
		if y == 0 {
			return Num{}, errZeroDivision
		}
		return Float(math.Floor(x / y)), nil
	case OpMod:
		if y == 0 {
			return Num{}, errZeroDivision
		}
		m := math.Mod(x, y)
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return Float(m), nil
	case OpPow:
		return Float(math.Pow(x, y)), nil
	}
	return Num{}, fmt.Errorf("%w: unknown operator %v", ErrType, op)
}

func (n Num) neg() Num {
	switch n.kind {
	case KindInt:
		return Int(-n.i)
	case KindFloat:
		return Float(-n.f)
	}
	return n
}

func (n Num) abs() Num {
	switch n.kind {
	case KindInt:
		if n.i < 0 {
			return Int(-n.i)
		}
		return n
	case KindFloat:
		return Float(math.Abs(n.f))
	}
	return n
}

// toInt converts with the given float rounding; integers and null pass through.
func (n Num) toInt(round func(float64) float64) Num {
	if n.kind != KindFloat {
		return n
	}
	return Int(int64(round(n.f)))
}

// round rounds half to even at the given number of decimal digits, keeping
// the kind.
func (n Num) round(ndigits int) Num {
	switch n.kind {
	case KindInt:
		if ndigits >= 0 {
			return n
		}
		p := ipow(10, int64(-ndigits))
		q := floorDiv(n.i, p)
		r := n.i - q*p
		if 2*r > p || (2*r == p && q%2 != 0) {
			q++
		}
		return Int(q * p)
	case KindFloat:
		if ndigits == 0 {
			return Float(math.RoundToEven(n.f))
		}
		p := math.Pow10(ndigits)
		return Float(math.RoundToEven(n.f*p) / p)
	}
	return n
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func floorMod(x, y int64) int64 {
	m := x % y
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}

func ipow(x, y int64) int64 {
	r := int64(1)
	for y > 0 {
		if y&1 == 1 {
			r *= x
		}
		x *= x
		y >>= 1
	}
	return r
}
