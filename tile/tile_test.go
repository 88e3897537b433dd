package tile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfour/gvrs/element"
	"github.com/gridfour/gvrs/format"
)

func TestTile_NewIsAllNull(t *testing.T) {
	elements := []element.Spec{element.NewIntegerSpec("elevation")}
	tl := New(0, 4, 4, elements)

	v, err := tl.GetValue("elevation", 1, 1)
	require.NoError(t, err)
	require.Equal(t, int32(format.IntMin), v)
	require.False(t, tl.Dirty())
}

func TestTile_SetGetValue(t *testing.T) {
	elements := []element.Spec{element.NewIntegerSpec("elevation")}
	tl := New(0, 4, 4, elements)

	require.NoError(t, tl.SetValue("elevation", 2, 3, 1234))
	v, err := tl.GetValue("elevation", 2, 3)
	require.NoError(t, err)
	require.Equal(t, int32(1234), v)
	require.True(t, tl.Dirty())

	tl.ClearDirty()
	require.False(t, tl.Dirty())
}

func TestTile_FloatPresentation_IntegerCodedFloat(t *testing.T) {
	elements := []element.Spec{element.NewIntegerCodedFloatSpec("temperature", 100, -40)}
	tl := New(0, 2, 2, elements)

	require.NoError(t, tl.SetValueAsFloat64("temperature", 0, 0, 22.5))
	v, err := tl.GetValueAsFloat64("temperature", 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 22.5, v, 1e-9)
}

func TestTile_FloatPresentation_Float(t *testing.T) {
	elements := []element.Spec{element.NewFloatSpec("flow")}
	tl := New(0, 2, 2, elements)

	require.NoError(t, tl.SetValueAsFloat64("flow", 1, 1, 3.5))
	v, err := tl.GetValueAsFloat64("flow", 1, 1)
	require.NoError(t, err)
	require.InDelta(t, 3.5, v, 1e-6)
}

func TestTile_GetSetValues(t *testing.T) {
	elements := []element.Spec{element.NewIntegerSpec("elevation")}
	tl := New(0, 2, 2, elements)

	in := []int32{1, 2, 3, 4}
	require.NoError(t, tl.SetValues("elevation", in))

	out := make([]int32, 4)
	require.NoError(t, tl.GetValues("elevation", out))
	require.Equal(t, in, out)
}

func TestTile_UnknownElement(t *testing.T) {
	tl := New(0, 2, 2, []element.Spec{element.NewIntegerSpec("elevation")})
	_, err := tl.GetValue("missing", 0, 0)
	require.Error(t, err)
}

func TestTile_ShortElement_NullRoundTrip(t *testing.T) {
	elements := []element.Spec{element.NewShortSpec("flag")}
	tl := New(0, 2, 2, elements)

	v, err := tl.GetValue("flag", 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(format.ShortMin), v)

	require.NoError(t, tl.SetValue("flag", 0, 0, 7))
	v, err = tl.GetValue("flag", 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
}
