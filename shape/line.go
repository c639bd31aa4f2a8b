// Package shape rasterizes lines, polylines, circles, spheres and filled
// outlines onto the integer block lattice.
//
// Every function returns a fresh single-pass iterator; call it again to
// start over. Nothing is computed until Next is called.
package shape

import (
	"fmt"
	"sort"

	"github.com/icexin/gocraft-pi/vector"
)

var ErrNoPoints = fmt.Errorf("%w: at least one point is required", vector.ErrValue)

// LineIter walks a 3D Bresenham line. The dominant axis (the one with the
// largest delta) advances every step; each subordinate axis advances when
// its accumulated error turns non-negative.
type LineIter struct {
	pos    [3]int64
	inc    [3]int64
	errInc [3]int64
	err    [3]int64
	errDec int64
	dom    int
	subs   [2]int
	end    int64

	started, done bool
}

// Line yields every lattice point from start to end inclusive, one per unit
// step along the dominant axis. Components are truncated to integers.
func Line(start, end vector.Vector) *LineIter {
	s, e := start.Ints(), end.Ints()
	it := &LineIter{pos: s}
	for i := 0; i < 3; i++ {
		d := e[i] - s[i]
		it.inc[i] = sign(d)
		it.errInc[i] = abs(d) << 1
	}
	axes := []int{0, 1, 2}
	sort.SliceStable(axes, func(a, b int) bool {
		return it.errInc[axes[a]] < it.errInc[axes[b]]
	})
	it.subs = [2]int{axes[0], axes[1]}
	it.dom = axes[2]
	it.errDec = it.errInc[it.dom]
	for i := 0; i < 3; i++ {
		it.err[i] = it.errInc[i] - it.errDec>>1
	}
	it.end = e[it.dom]
	return it
}

func (it *LineIter) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.done || it.atEnd() {
		it.done = true
		return false
	}
	it.pos[it.dom] += it.inc[it.dom]
	for _, a := range it.subs {
		if it.err[a] >= 0 {
			it.pos[a] += it.inc[a]
			it.err[a] -= it.errDec
		}
		it.err[a] += it.errInc[a]
	}
	return true
}

func (it *LineIter) Vector() vector.Vector {
	return vector.New(it.pos[0], it.pos[1], it.pos[2])
}

// atEnd reports whether the current point is the last one.
func (it *LineIter) atEnd() bool {
	return it.pos[it.dom] == it.end
}

// LinesIter joins a sequence of points with lines.
type LinesIter struct {
	first    vector.Vector
	segs     [][2]vector.Vector
	closeSeg int

	seg     int
	cur     *LineIter
	closing bool
	started bool
	v       vector.Vector
}

// Lines joins consecutive points with Line, emitting each shared endpoint
// once. If closed, the last point is joined back to the first unless they
// already coincide.
func Lines(points []vector.Vector, closed bool) (*LinesIter, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	it := &LinesIter{
		first:    integer(points[0]),
		closeSeg: -1,
	}
	for i := 1; i < len(points); i++ {
		it.segs = append(it.segs, [2]vector.Vector{points[i-1], points[i]})
	}
	last := points[len(points)-1]
	if closed && integer(last) != it.first {
		it.closeSeg = len(it.segs)
		it.segs = append(it.segs, [2]vector.Vector{last, points[0]})
	}
	return it, nil
}

func (it *LinesIter) Next() bool {
	if !it.started {
		it.started = true
		it.v = it.first
		return true
	}
	for {
		if it.cur != nil && it.cur.Next() {
			// the closing line ends on the very first point
			if it.closing && it.cur.atEnd() {
				it.cur = nil
				continue
			}
			it.v = it.cur.Vector()
			return true
		}
		if it.seg >= len(it.segs) {
			it.cur = nil
			return false
		}
		s := it.segs[it.seg]
		it.closing = it.seg == it.closeSeg
		it.seg++
		it.cur = Line(s[0], s[1])
		// the start was emitted as the end of the previous segment
		it.cur.Next()
	}
}

func (it *LinesIter) Vector() vector.Vector {
	return it.v
}

func integer(v vector.Vector) vector.Vector {
	a := v.Ints()
	return vector.New(a[0], a[1], a[2])
}

func sign(d int64) int64 {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

func abs(d int64) int64 {
	if d < 0 {
		return -d
	}
	return d
}
