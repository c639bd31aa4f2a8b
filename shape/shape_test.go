package shape_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-pi/shape"
	"github.com/icexin/gocraft-pi/vector"
)

func unique(t *testing.T, vs []vector.Vector) {
	t.Helper()
	assert.Equal(t, len(vs), len(vector.NewSet(vs...)), "duplicate coordinates emitted")
}

func adjacent(a, b vector.Vector) bool {
	d := a.Sub(b).Abs().Ints()
	return d[0] <= 1 && d[1] <= 1 && d[2] <= 1
}

func TestLine(t *testing.T) {
	vs := vector.Collect(shape.Line(vector.O, vector.New(10, 5, 0)))
	require.Len(t, vs, 11)
	assert.Equal(t, vector.O, vs[0])
	assert.Equal(t, vector.New(10, 5, 0), vs[10])
	for i := 1; i < len(vs); i++ {
		assert.Equal(t, vs[i-1].X.Int64()+1, vs[i].X.Int64())
	}
}

func TestLine_anyDirection(t *testing.T) {
	ends := []vector.Vector{
		vector.New(-3, 7, 2), vector.New(4, -4, 4), vector.New(0, 0, -9), vector.New(1, 2, 3),
	}
	for _, e := range ends {
		start := vector.New(2, -1, 1)
		vs := vector.Collect(shape.Line(start, e))
		require.NotEmpty(t, vs)
		assert.Equal(t, start, vs[0])
		assert.Equal(t, e, vs[len(vs)-1])
		d := e.Sub(start).Abs().Ints()
		max := d[0]
		if d[1] > max {
			max = d[1]
		}
		if d[2] > max {
			max = d[2]
		}
		assert.Len(t, vs, int(max)+1)
		for i := 1; i < len(vs); i++ {
			assert.True(t, adjacent(vs[i-1], vs[i]), "%v -> %v", vs[i-1], vs[i])
		}
	}
}

func TestLine_point(t *testing.T) {
	p := vector.New(3, 3, 3)
	assert.Equal(t, []vector.Vector{p}, vector.Collect(shape.Line(p, p)))
}

var square = []vector.Vector{
	vector.New(0, 0, 0), vector.New(4, 0, 0), vector.New(4, 4, 0), vector.New(0, 4, 0),
}

func TestLines(t *testing.T) {
	it, err := shape.Lines(square, true)
	require.NoError(t, err)
	vs := vector.Collect(it)
	assert.Len(t, vs, 16)
	unique(t, vs)
	assert.Equal(t, vector.O, vs[0])
	assert.Equal(t, vector.New(0, 1, 0), vs[len(vs)-1])

	it, err = shape.Lines(square, false)
	require.NoError(t, err)
	vs = vector.Collect(it)
	assert.Len(t, vs, 13)
	assert.Equal(t, vector.New(0, 4, 0), vs[len(vs)-1])
	unique(t, vs)
}

func TestLines_degenerate(t *testing.T) {
	_, err := shape.Lines(nil, true)
	assert.True(t, errors.Is(err, shape.ErrNoPoints))
	assert.True(t, errors.Is(err, vector.ErrValue))

	it, err := shape.Lines([]vector.Vector{vector.One}, true)
	require.NoError(t, err)
	assert.Equal(t, []vector.Vector{vector.One}, vector.Collect(it))

	closed := append(append([]vector.Vector{}, square...), square[0])
	it, err = shape.Lines(closed, true)
	require.NoError(t, err)
	assert.Len(t, vector.Collect(it), 17)
}

func TestFilled(t *testing.T) {
	it, err := shape.Lines(square, true)
	require.NoError(t, err)
	outline := vector.Collect(it)

	vs := vector.Collect(shape.Filled(outline))
	unique(t, vs)
	assert.Len(t, vs, 25)
	set := vector.NewSet(vs...)
	for _, p := range outline {
		assert.True(t, set.Contains(p), "outline point %v missing", p)
	}
	box, err := vector.RangeTo(vector.New(5, 5, 1))
	require.NoError(t, err)
	for _, v := range vs {
		assert.True(t, box.Contains(v), "%v outside the square", v)
	}
}

func TestFilled_triangle(t *testing.T) {
	it, err := shape.Lines([]vector.Vector{vector.O, vector.New(6, 0, 0), vector.New(0, 0, 6)}, true)
	require.NoError(t, err)
	outline := vector.Collect(it)
	vs := vector.Collect(shape.Filled(outline))
	unique(t, vs)
	assert.Greater(t, len(vs), len(outline))
	set := vector.NewSet(vs...)
	for _, p := range outline {
		assert.True(t, set.Contains(p))
	}
	assert.True(t, set.Contains(vector.New(1, 0, 1)))
}

func TestFilled_trivial(t *testing.T) {
	assert.Empty(t, vector.Collect(shape.Filled(nil)))
	assert.Equal(t, []vector.Vector{vector.One}, vector.Collect(shape.Filled([]vector.Vector{vector.One, vector.One})))
}

func TestCircle(t *testing.T) {
	it, err := shape.Circle(vector.O, vector.X.Mul(vector.Int(5)), vector.Y)
	require.NoError(t, err)
	vs := vector.Collect(it)
	unique(t, vs)
	set := vector.NewSet(vs...)
	for _, p := range []vector.Vector{
		vector.New(5, 0, 0), vector.New(-5, 0, 0), vector.New(0, 5, 0), vector.New(0, -5, 0),
	} {
		assert.True(t, set.Contains(p), "%v missing", p)
	}
	for _, v := range vs {
		assert.Equal(t, int64(0), v.Z.Int64(), "%v", v)
		assert.InDelta(t, 5.0, v.Magnitude(), 1.0, "%v", v)
	}
}

func TestCircle_planeHint(t *testing.T) {
	// only the part of the hint perpendicular to the radius matters
	a, err := shape.Circle(vector.O, vector.New(0, 0, 4), vector.New(3, 0, 7))
	require.NoError(t, err)
	b, err := shape.Circle(vector.O, vector.New(0, 0, 4), vector.X)
	require.NoError(t, err)
	vs := vector.Collect(a)
	assert.Equal(t, vector.Collect(b), vs)
	set := vector.NewSet(vs...)
	assert.True(t, set.Contains(vector.New(4, 0, 0)))
	assert.True(t, set.Contains(vector.New(-4, 0, 0)))
	for _, v := range vs {
		assert.Equal(t, int64(0), v.Y.Int64(), "%v", v)
	}
}

func TestCircle_tilted(t *testing.T) {
	center := vector.New(10, 20, 30)
	it, err := shape.Circle(center, vector.New(4, 0, 0), vector.New(0, 1, 1))
	require.NoError(t, err)
	vs := vector.Collect(it)
	require.NotEmpty(t, vs)
	unique(t, vs)
	// the circle spans X and (0,1,1), so (0,-1,1) is its normal
	normal := vector.New(0, -1, 1).Unit()
	for _, v := range vs {
		off := v.Sub(center)
		assert.InDelta(t, 4.0, off.Magnitude(), 1.5, "%v", v)
		assert.InDelta(t, 0.0, off.Dot(normal).Float64(), 1.0, "%v", v)
	}
}

func TestCircle_degenerate(t *testing.T) {
	_, err := shape.Circle(vector.O, vector.X, vector.X.Mul(vector.Int(2)))
	assert.True(t, errors.Is(err, vector.ErrValue))

	it, err := shape.Circle(vector.One, vector.O, vector.Y)
	require.NoError(t, err)
	assert.Equal(t, []vector.Vector{vector.One}, vector.Collect(it))
}

func TestSphere(t *testing.T) {
	it, err := shape.Sphere(vector.O, 3)
	require.NoError(t, err)
	vs := vector.Collect(it)
	unique(t, vs)
	set := vector.NewSet(vs...)
	for _, axis := range []vector.Vector{vector.X, vector.Y, vector.Z} {
		assert.True(t, set.Contains(axis.Mul(vector.Int(3))))
		assert.True(t, set.Contains(axis.Mul(vector.Int(-3))))
	}
	for _, v := range vs {
		assert.InDelta(t, 3.0, v.Magnitude(), 1.5, "%v", v)
	}
	assert.False(t, set.Contains(vector.O))
}

func TestSphere_restart(t *testing.T) {
	a, err := shape.Sphere(vector.New(5, 5, 5), 2)
	require.NoError(t, err)
	b, err := shape.Sphere(vector.New(5, 5, 5), 2)
	require.NoError(t, err)
	first := vector.Collect(a)
	assert.False(t, a.Next())
	assert.Equal(t, first, vector.Collect(b))

	_, err = shape.Sphere(vector.O, -1)
	assert.True(t, errors.Is(err, vector.ErrValue))
}
