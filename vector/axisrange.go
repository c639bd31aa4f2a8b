package vector

import "fmt"

// AxisRange is the half-open arithmetic progression start, start+step, ...
// stopping before stop, along a single axis.
type AxisRange struct {
	start, stop, step int64
}

func NewAxisRange(start, stop, step int64) (AxisRange, error) {
	if step == 0 {
		return AxisRange{}, fmt.Errorf("%w: axis range step must not be zero", ErrValue)
	}
	return AxisRange{start, stop, step}, nil
}

func (r AxisRange) Start() int64 { return r.start }
func (r AxisRange) Stop() int64  { return r.stop }
func (r AxisRange) Step() int64  { return r.step }

// Len is max(0, ceil((stop-start)/step)).
func (r AxisRange) Len() int64 {
	if r.step > 0 {
		if r.stop <= r.start {
			return 0
		}
		return (r.stop - r.start + r.step - 1) / r.step
	}
	if r.stop >= r.start {
		return 0
	}
	return (r.start - r.stop - r.step - 1) / -r.step
}

// At returns item i; negative i counts from the end.
func (r AxisRange) At(i int64) (int64, error) {
	n := r.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, n)
	}
	return r.start + i*r.step, nil
}

func (r AxisRange) Index(v int64) (int64, error) {
	if r.Len() == 0 {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, v)
	}
	d := v - r.start
	if d%r.step != 0 {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, v)
	}
	i := d / r.step
	if i < 0 || i >= r.Len() {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, v)
	}
	return i, nil
}

func (r AxisRange) Contains(v int64) bool {
	_, err := r.Index(v)
	return err == nil
}

// Equal compares the represented sequences, so every empty range equals
// every other.
func (r AxisRange) Equal(o AxisRange) bool {
	n := r.Len()
	if n != o.Len() {
		return false
	}
	if n == 0 {
		return true
	}
	if r.start != o.start {
		return false
	}
	return n == 1 || r.step == o.step
}

// Slice selects items the way a [start:stop:step] slice expression does:
// negative bounds count from the end, out of range bounds are clamped and
// Null means omitted.
func (r AxisRange) Slice(start, stop, step Num) (AxisRange, error) {
	lo, hi, st, err := sliceIndices(start, stop, step, r.Len())
	if err != nil {
		return AxisRange{}, err
	}
	return AxisRange{
		start: r.start + lo*r.step,
		stop:  r.start + hi*r.step,
		step:  r.step * st,
	}, nil
}

func sliceIndices(start, stop, step Num, n int64) (lo, hi, st int64, err error) {
	for _, b := range [...]Num{start, stop, step} {
		if !b.IsNull() && b.Kind() != KindInt {
			return 0, 0, 0, fmt.Errorf("%w: slice bounds must be integers, not %v", ErrType, b.Kind())
		}
	}
	st = 1
	if !step.IsNull() {
		st = step.Int64()
	}
	if st == 0 {
		return 0, 0, 0, fmt.Errorf("%w: slice step cannot be zero", ErrValue)
	}
	lower, upper := int64(0), n
	if st < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(b Num, def int64) int64 {
		if b.IsNull() {
			return def
		}
		i := b.Int64()
		if i < 0 {
			i += n
			if i < lower {
				return lower
			}
			return i
		}
		if i > upper {
			return upper
		}
		return i
	}
	if st > 0 {
		lo, hi = clamp(start, lower), clamp(stop, upper)
	} else {
		lo, hi = clamp(start, upper), clamp(stop, lower)
	}
	return lo, hi, st, nil
}

func (r AxisRange) String() string {
	return fmt.Sprintf("AxisRange(%d, %d, %d)", r.start, r.stop, r.step)
}

// Iter walks the range from start toward stop.
func (r AxisRange) Iter() *AxisIter {
	return &AxisIter{r: r, n: r.Len(), i: -1, d: 1}
}

// Reversed walks the range from its last item back to start.
func (r AxisRange) Reversed() *AxisIter {
	n := r.Len()
	return &AxisIter{r: r, n: n, i: n, d: -1}
}

type AxisIter struct {
	r    AxisRange
	n, i int64
	d    int64
}

func (it *AxisIter) Next() bool {
	next := it.i + it.d
	if next < 0 || next >= it.n {
		it.i = -1
		it.n = 0
		return false
	}
	it.i = next
	return true
}

func (it *AxisIter) Value() int64 {
	return it.r.start + it.i*it.r.step
}
