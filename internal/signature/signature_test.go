package signature_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/signature"
)

func TestParseRoundTripsLeaves(t *testing.T) {
	for _, code := range "vbcCwWiIlLfdsmroX_" {
		sig, err := signature.Parse(string(code))
		require.NoError(t, err)
		require.Equal(t, string(code), sig.String())
	}
}

func TestParseComposites(t *testing.T) {
	cases := []string{
		"[i]",
		"{si}",
		"(is)",
		"(is)<Point,x,y>",
		"[[i]]",
		"{s(id)}",
	}
	for _, c := range cases {
		sig, err := signature.Parse(c)
		require.NoError(t, err, c)
		require.Equal(t, c, sig.String())
	}
}

func TestParseMalformedIsInvalid(t *testing.T) {
	_, err := signature.Parse("[i")
	require.Error(t, err)

	_, err = signature.Parse("q")
	require.Error(t, err)
}

func TestAnnotatedTupleSizeAndAnnotation(t *testing.T) {
	sig, err := signature.Parse("(is)<Point,x,y>")
	require.NoError(t, err)
	require.Equal(t, 2, sig.Size())
	require.Equal(t, "<Point,x,y>", sig.Annotation())
	require.Equal(t, "Point", sig.ClassName())
	require.Equal(t, []string{"x", "y"}, sig.ElementNames())
}

func TestLeafSizeIsAlwaysOne(t *testing.T) {
	sig, err := signature.Parse("i")
	require.NoError(t, err)
	require.Equal(t, 1, sig.Size())
}

func TestIsConvertibleToWidening(t *testing.T) {
	i32, _ := signature.Parse("i")
	i64, _ := signature.Parse("l")
	f, _ := signature.Parse("f")
	d, _ := signature.Parse("d")
	u32, _ := signature.Parse("I")

	require.True(t, i32.IsConvertibleTo(i64))
	require.False(t, i64.IsConvertibleTo(i32))
	require.True(t, i32.IsConvertibleTo(f))
	require.True(t, f.IsConvertibleTo(d))
	require.False(t, i32.IsConvertibleTo(u32), "widening requires same signedness")
}

func TestIsConvertibleToDynamicAndNone(t *testing.T) {
	m, _ := signature.Parse("m")
	i32, _ := signature.Parse("i")
	none, _ := signature.Parse("_")

	require.True(t, i32.IsConvertibleTo(m))
	require.True(t, m.IsConvertibleTo(i32))
	require.True(t, none.IsConvertibleTo(i32))
	require.True(t, i32.IsConvertibleTo(none))
}

func TestIsConvertibleToComposites(t *testing.T) {
	listI32, _ := signature.Parse("[i]")
	listI64, _ := signature.Parse("[l]")
	require.True(t, listI32.IsConvertibleTo(listI64))

	mapA, _ := signature.Parse("{si}")
	mapB, _ := signature.Parse("{sl}")
	require.True(t, mapA.IsConvertibleTo(mapB))

	tupA, _ := signature.Parse("(is)")
	tupB, _ := signature.Parse("(ls)")
	require.True(t, tupA.IsConvertibleTo(tupB))

	tupC, _ := signature.Parse("(i)")
	require.False(t, tupA.IsConvertibleTo(tupC), "different arity never converts")
}
