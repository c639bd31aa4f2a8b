package vector

import "fmt"

// invMod returns every numerator n within nums (an ascending, unit-step
// range) for which n % denom == result.
func invMod(denom, result int64, nums AxisRange) (AxisRange, error) {
	if denom <= 0 {
		return AxisRange{}, fmt.Errorf("%w: invalid denominator %d", ErrValue, denom)
	}
	if result < 0 || result >= denom || nums.Len() == 0 {
		return AxisRange{0, 0, 1}, nil
	}
	start := nums.start + floorMod(result-floorMod(nums.start, denom), denom)
	return AxisRange{start, nums.stop, denom}, nil
}

// invDiv returns every numerator n for which n / denom == result.
func invDiv(denom, result int64) (AxisRange, error) {
	if denom <= 0 {
		return AxisRange{}, fmt.Errorf("%w: invalid denominator %d", ErrValue, denom)
	}
	return AxisRange{result * denom, result*denom + denom, 1}, nil
}

// clip restricts a positive-step range to [lo, hi).
func (r AxisRange) clip(lo, hi int64) AxisRange {
	if r.Len() == 0 || hi <= lo {
		return AxisRange{0, 0, 1}
	}
	start := r.start
	if start < lo {
		start += (lo - start + r.step - 1) / r.step * r.step
	}
	stop := r.stop
	if stop > hi {
		stop = hi
	}
	return AxisRange{start, stop, r.step}
}
