package gomag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticPair(t *testing.T) (torus, solenoid *Grid) {
	torus, err := SyntheticTorus(true)
	require.NoError(t, err)
	solenoid, err = SyntheticSolenoid()
	require.NoError(t, err)
	return torus, solenoid
}

func TestComposite(t *testing.T) {
	torus, solenoid := syntheticPair(t)

	_, err := Composite(nil, nil, 0, 0, 0)
	assert.Equal(t, ErrConfiguration, err)

	for _, p := range [][3]float64{
		{-30, 0, 280}, {-46.5, 0, 280}, {32.8, 32.8, 250}, {23.2, 40.2, 280},
		{100, -50, 0}, {0, 250, 100},
	} {
		tb, err := torus.Value(p[0], p[1], p[2])
		require.NoError(t, err)
		sb, err := solenoid.Value(p[0], p[1], p[2])
		require.NoError(t, err)

		got, err := Composite(torus, solenoid, p[0], p[1], p[2])
		require.NoError(t, err)
		assert.Equal(t, tb.Add(sb), got, "%v", p)

		got, err = Composite(torus, nil, p[0], p[1], p[2])
		require.NoError(t, err)
		assert.Equal(t, tb, got, "%v", p)

		got, err = Composite(nil, solenoid, p[0], p[1], p[2])
		require.NoError(t, err)
		assert.Equal(t, sb, got, "%v", p)
	}
}

func TestCompositeOutOfRange(t *testing.T) {
	torus, solenoid := syntheticPair(t)

	// Inside the solenoid, but inside the torus' inner radius.
	sb, err := solenoid.Value(10, 0, 0)
	require.NoError(t, err)
	got, err := Composite(torus, solenoid, 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, sb, got)

	// Inside the torus only.
	tb, err := torus.Value(0, 350, 450)
	require.NoError(t, err)
	got, err = Composite(torus, solenoid, 0, 350, 450)
	require.NoError(t, err)
	assert.Equal(t, tb, got)

	_, err = Composite(torus, solenoid, 1000, 0, 0)
	assert.Equal(t, ErrOutOfRange, err)
	_, err = Composite(nil, solenoid, 0, 0, 1000)
	assert.Equal(t, ErrOutOfRange, err)
}

func TestCombiner(t *testing.T) {
	torus, solenoid := syntheticPair(t)

	_, err := torus.Value(50, 50, 100)
	require.NoError(t, err)
	require.NotEqual(t, -1, torus.Cache().Index(2))

	c := NewCombiner(torus, nil)
	assert.Equal(t, -1, torus.Cache().Index(2))
	assert.False(t, c.Empty())

	_, err = c.Value(50, 50, 100)
	require.NoError(t, err)
	idx := torus.Cache().Index(2)
	require.NotEqual(t, -1, idx)

	// Keeping a grid does not reset it.
	c.SetSources(torus, solenoid)
	assert.Equal(t, idx, torus.Cache().Index(2))

	tr, so := c.Sources()
	assert.Same(t, torus, tr)
	assert.Same(t, solenoid, so)

	want, err := Composite(torus, solenoid, 20, -30, 150)
	require.NoError(t, err)
	got, err := c.Value(20, -30, 150)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mag, err := c.Magnitude(20, -30, 150)
	require.NoError(t, err)
	assert.Equal(t, want.Magnitude(), mag)

	ref := c.Ref()
	rt, _ := ref.Sources()
	assert.NotSame(t, torus, rt)
	assert.NotSame(t, torus.Cache(), rt.Cache())
	got, err = ref.Value(20, -30, 150)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	c.SetSources(nil, nil)
	assert.True(t, c.Empty())
	_, err = c.Value(0, 0, 0)
	assert.Equal(t, ErrConfiguration, err)
}
