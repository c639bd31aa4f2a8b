package vector

import "fmt"

// Op is an element-wise binary operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLsh
	OpRsh
	OpAnd
	OpXor
	OpOr
)

var opNames = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpLsh:      "<<",
	OpRsh:      ">>",
	OpAnd:      "&",
	OpXor:      "^",
	OpOr:       "|",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

func (op Op) bitwise() bool {
	return op >= OpLsh
}

// commutative ops are the only ones allowed with a scalar on the left.
func (op Op) commutative() bool {
	return op == OpAdd || op == OpMul
}

// Operand is either a Vector or a Num. A Num is broadcast across all three
// axes.
type Operand interface {
	components() (x, y, z Num)
}

func (n Num) components() (Num, Num, Num) { return n, n, n }

func (v Vector) components() (Num, Num, Num) { return v.X, v.Y, v.Z }

// Binary applies op element-wise. At least one side must be a Vector, and a
// scalar may only sit on the left of + and *.
func Binary(op Op, a, b Operand) (Vector, error) {
	if _, ok := a.(Vector); !ok {
		if _, ok := b.(Vector); !ok || !op.commutative() {
			return Vector{}, fmt.Errorf("%w: %T %v %T", ErrType, a, op, b)
		}
		a, b = b, a
	}
	ax, ay, az := a.components()
	bx, by, bz := b.components()
	x, err := ax.apply(op, bx)
	if err != nil {
		return Vector{}, err
	}
	y, err := ay.apply(op, by)
	if err != nil {
		return Vector{}, err
	}
	z, err := az.apply(op, bz)
	if err != nil {
		return Vector{}, err
	}
	return Vector{x, y, z}, nil
}

func (v Vector) must(op Op, o Operand) Vector {
	r, err := Binary(op, v, o)
	if err != nil {
		panic(err)
	}
	return r
}

// The operator methods panic with the Binary error on invalid operands, the
// same way integer division by zero panics. Use Binary to get the error back.

func (v Vector) Add(o Operand) Vector      { return v.must(OpAdd, o) }
func (v Vector) Sub(o Operand) Vector      { return v.must(OpSub, o) }
func (v Vector) Mul(o Operand) Vector      { return v.must(OpMul, o) }
func (v Vector) Div(o Operand) Vector      { return v.must(OpDiv, o) }
func (v Vector) FloorDiv(o Operand) Vector { return v.must(OpFloorDiv, o) }
func (v Vector) Mod(o Operand) Vector      { return v.must(OpMod, o) }
func (v Vector) Pow(o Operand) Vector      { return v.must(OpPow, o) }
func (v Vector) Lsh(o Operand) Vector      { return v.must(OpLsh, o) }
func (v Vector) Rsh(o Operand) Vector      { return v.must(OpRsh, o) }
func (v Vector) And(o Operand) Vector      { return v.must(OpAnd, o) }
func (v Vector) Xor(o Operand) Vector      { return v.must(OpXor, o) }
func (v Vector) Or(o Operand) Vector       { return v.must(OpOr, o) }
