package vector

import "fmt"

// Order names the axis that varies fastest when a Range is flattened, then
// the next, then the slowest. ZXY walks z first and y last, which returns a
// horizontal layer of the world at a time.
type Order uint8

const (
	XYZ Order = iota
	XZY
	YXZ
	YZX
	ZXY
	ZYX
)

var orderAxes = [...][3]int{
	XYZ: {0, 1, 2},
	XZY: {0, 2, 1},
	YXZ: {1, 0, 2},
	YZX: {1, 2, 0},
	ZXY: {2, 0, 1},
	ZYX: {2, 1, 0},
}

// orderPos is the inverse of orderAxes: the position of x, y and z.
var orderPos = [...][3]int{
	XYZ: {0, 1, 2},
	XZY: {0, 2, 1},
	YXZ: {1, 0, 2},
	YZX: {2, 0, 1},
	ZXY: {1, 2, 0},
	ZYX: {2, 1, 0},
}

var orderNames = [...]string{
	XYZ: "xyz",
	XZY: "xzy",
	YXZ: "yxz",
	YZX: "yzx",
	ZXY: "zxy",
	ZYX: "zyx",
}

func ParseOrder(s string) (Order, error) {
	for o, name := range orderNames {
		if name == s {
			return Order(o), nil
		}
	}
	return 0, fmt.Errorf("%w: invalid order %q", ErrValue, s)
}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

func (o Order) valid() bool {
	return int(o) < len(orderNames)
}

// Range is a lazy cuboid of integer vectors, the 3D counterpart of an
// AxisRange. It stores only its bounds; items, indexes and sub-ranges are
// computed on demand in constant time.
//
// Two ranges holding the same vectors in a different order are not Equal.
type Range struct {
	start, stop, step Vector
	order             Order
	// ranges[0] varies fastest when flattening
	ranges [3]AxisRange
}

func NewRange(start, stop, step Vector, order Order) (Range, error) {
	if !order.valid() {
		return Range{}, fmt.Errorf("%w: invalid order %v", ErrValue, order)
	}
	s, err := integral(start, "start")
	if err != nil {
		return Range{}, err
	}
	e, err := integral(stop, "stop")
	if err != nil {
		return Range{}, err
	}
	st, err := integral(step, "step")
	if err != nil {
		return Range{}, err
	}
	if st[0] == 0 || st[1] == 0 || st[2] == 0 {
		return Range{}, fmt.Errorf("%w: no element of step may be zero", ErrValue)
	}
	r := Range{
		start: fromInts(s),
		stop:  fromInts(e),
		step:  fromInts(st),
		order: order,
	}
	for i, axis := range orderAxes[order] {
		r.ranges[i] = AxisRange{s[axis], e[axis], st[axis]}
	}
	return r, nil
}

// RangeBetween is NewRange with a unit step in ZXY order.
func RangeBetween(start, stop Vector) (Range, error) {
	return NewRange(start, stop, One, ZXY)
}

// RangeTo is RangeBetween starting at the origin.
func RangeTo(stop Vector) (Range, error) {
	return NewRange(O, stop, One, ZXY)
}

func integral(v Vector, name string) ([3]int64, error) {
	var a [3]int64
	for i := 0; i < 3; i++ {
		c := v.Axis(i)
		if !c.Integral() {
			return a, fmt.Errorf("%w: %s must have integer components, got %v", ErrValue, name, v)
		}
		a[i] = c.Int64()
	}
	return a, nil
}

func (r Range) Start() Vector { return r.start }
func (r Range) Stop() Vector  { return r.stop }
func (r Range) Step() Vector  { return r.step }
func (r Range) Order() Order  { return r.order }

// axisRange returns the range along axis 0 (x), 1 (y) or 2 (z).
func (r Range) axisRange(axis int) AxisRange {
	return r.ranges[orderPos[r.order][axis]]
}

func (r Range) String() string {
	return fmt.Sprintf("Range(%v, %v, %v, %v)", r.start, r.stop, r.step, r.order)
}

func (r Range) Len() int64 {
	return r.ranges[0].Len() * r.ranges[1].Len() * r.ranges[2].Len()
}

func (r Range) Empty() bool {
	return r.Len() == 0
}

// At returns item i of the flattened range; negative i counts from the end.
func (r Range) At(i int64) (Vector, error) {
	n := r.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Vector{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, n)
	}
	return r.at(i), nil
}

func (r Range) at(i int64) Vector {
	n0, n1 := r.ranges[0].Len(), r.ranges[1].Len()
	idx := [3]int64{i % n0, (i / n0) % n1, i / (n0 * n1)}
	var v [3]int64
	for p, axis := range orderAxes[r.order] {
		v[axis] = r.ranges[p].start + idx[p]*r.ranges[p].step
	}
	return fromInts(v)
}

// AtVector indexes each axis independently: v.X picks from the x range and
// so on. Negative components count from the end of their axis.
func (r Range) AtVector(v Vector) (Vector, error) {
	idx, err := integral(v, "index")
	if err != nil {
		return Vector{}, err
	}
	var out [3]int64
	for axis := 0; axis < 3; axis++ {
		c, err := r.axisRange(axis).At(idx[axis])
		if err != nil {
			return Vector{}, err
		}
		out[axis] = c
	}
	return fromInts(out), nil
}

// Index returns the flat position of v, or an error wrapping ErrNotFound.
//
// Flattening maps i to axis positions (i % n0, (i / n0) % n1, i / (n0*n1)).
// Index runs that backwards: each axis position names the set of flat
// indexes that produce it, and v's index is the one member common to all
// three sets.
func (r Range) Index(v Vector) (int64, error) {
	c, err := integral(v, "value")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotFound, v)
	}
	var pos [3]int64
	for p, axis := range orderAxes[r.order] {
		if pos[p], err = r.ranges[p].Index(c[axis]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrNotFound, v)
		}
	}
	n0, n1 := r.ranges[0].Len(), r.ranges[1].Len()
	n := r.Len()
	slow, err := invDiv(n0*n1, pos[2])
	if err != nil {
		return 0, err
	}
	mids, err := invMod(n1, pos[1], AxisRange{slow.start / n0, slow.stop / n0, 1})
	if err != nil {
		return 0, err
	}
	var found []int64
	for it := mids.Iter(); it.Next(); {
		block, err := invDiv(n0, it.Value())
		if err != nil {
			return 0, err
		}
		fast, err := invMod(n0, pos[0], block)
		if err != nil {
			return 0, err
		}
		for jt := fast.clip(0, n).Iter(); jt.Next(); {
			found = append(found, jt.Value())
		}
	}
	if len(found) != 1 {
		return 0, fmt.Errorf("%w: %v", ErrNotFound, v)
	}
	return found[0], nil
}

func (r Range) Contains(v Vector) bool {
	_, err := r.Index(v)
	return err == nil
}

// Count is 1 if v is in the range and 0 otherwise.
func (r Range) Count(v Vector) int {
	if r.Contains(v) {
		return 1
	}
	return 0
}

// Slice cuts every axis independently, like a [start:stop:step] expression
// per axis. Null components (and Unset) mean omitted; an Unset step is One.
func (r Range) Slice(start, stop, step Vector) (Range, error) {
	if step == Unset {
		step = One
	}
	for i := 0; i < 3; i++ {
		if !step.Axis(i).Truthy() {
			return Range{}, fmt.Errorf("%w: every element of the slice's step must be non-zero", ErrValue)
		}
	}
	var s, e, st [3]int64
	for axis := 0; axis < 3; axis++ {
		ar, err := r.axisRange(axis).Slice(start.Axis(axis), stop.Axis(axis), step.Axis(axis))
		if err != nil {
			return Range{}, err
		}
		s[axis], e[axis], st[axis] = ar.start, ar.stop, ar.step
	}
	return NewRange(fromInts(s), fromInts(e), fromInts(st), r.order)
}

// Equal reports whether both ranges emit the same sequence.
func (r Range) Equal(o Range) bool {
	if r.order != o.order {
		return false
	}
	for axis := 0; axis < 3; axis++ {
		if !r.axisRange(axis).Equal(o.axisRange(axis)) {
			return false
		}
	}
	return true
}

// EqualVectors compares the emitted sequence with vs.
func (r Range) EqualVectors(vs []Vector) bool {
	if r.Len() != int64(len(vs)) {
		return false
	}
	for i, v := range vs {
		if !r.at(int64(i)).Equal(v) {
			return false
		}
	}
	return true
}

// Less compares emitted sequences lexicographically. A range is never less
// than a range it is a prefix of.
func (r Range) Less(o Range) bool {
	n := r.Len()
	if m := o.Len(); m < n {
		n = m
	}
	for i := int64(0); i < n; i++ {
		if c := r.at(i).Compare(o.at(i)); c != 0 {
			return c < 0
		}
	}
	return false
}

func (r Range) Iter() *RangeIter {
	return r.Sub(0, r.Len())
}

func (r Range) Reversed() *RangeIter {
	n := r.Len()
	return &RangeIter{r: r, i: n, lo: 0, hi: n, d: -1}
}

// Sub iterates the flat indexes [lo, hi), clamped to the range. Disjoint
// windows visit disjoint vectors, so a range can be split across
// goroutines without coordination.
func (r Range) Sub(lo, hi int64) *RangeIter {
	n := r.Len()
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return &RangeIter{r: r, i: lo - 1, lo: lo, hi: hi, d: 1}
}

type RangeIter struct {
	r         Range
	i, lo, hi int64
	d         int64
	cur       Vector
}

func (it *RangeIter) Next() bool {
	next := it.i + it.d
	if next < it.lo || next >= it.hi {
		it.lo, it.hi = 0, 0
		return false
	}
	it.i = next
	it.cur = it.r.at(next)
	return true
}

func (it *RangeIter) Vector() Vector {
	return it.cur
}

// Index is the flat index of the current vector.
func (it *RangeIter) Index() int64 {
	return it.i
}
