package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internal2vol/field"
)

func TestCheckInAndOut(t *testing.T) {
	r := New()
	a := field.NewInternal(field.ScalarType, "A", field.Dimensions{}, []field.Scalar{1})

	require.NoError(t, r.CheckIn(a))
	assert.Equal(t, 1, r.Size())
	assert.Error(t, r.CheckIn(a), "duplicate names must be rejected")

	other := field.NewInternal(field.ScalarType, "A", field.Dimensions{}, nil)
	assert.False(t, r.CheckOut(other), "only the registered instance may be checked out")
	assert.True(t, r.CheckOut(a))
	assert.False(t, r.CheckOut(a))
	assert.Equal(t, 0, r.Size())
}

func TestLookupIsTyped(t *testing.T) {
	r := New()
	u := field.NewInternal(field.VectorType, "U", field.Dimensions{0, 1, -1}, []field.Vector{{1, 0, 0}})
	require.NoError(t, r.CheckIn(u))

	got, ok := Lookup[*field.Internal[field.Vector]](r, "U")
	require.True(t, ok)
	assert.Same(t, u, got)

	assert.False(t, Found[*field.Internal[field.Scalar]](r, "U"))
	assert.False(t, Found[*field.Internal[field.Vector]](r, "V"))
	assert.True(t, Found[*field.Internal[field.Vector]](r, "U"))
}

func TestNamesSorted(t *testing.T) {
	r := New()
	for _, n := range []string{"b", "c", "a"} {
		require.NoError(t, r.CheckIn(field.NewInternal(field.ScalarType, n, field.Dimensions{}, nil)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}
