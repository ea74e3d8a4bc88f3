package qitype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/qitype"
)

func TestRegistryLateRegistration(t *testing.T) {
	r := qitype.NewRegistry()
	ti := qitype.NamedTypeInfo("scenario.S6")

	got, ok := r.Get(ti)
	require.False(t, ok)
	require.Nil(t, got)

	require.True(t, r.Register(ti, qitype.Int32T))

	got, ok = r.Get(ti)
	require.True(t, ok)
	require.Equal(t, qitype.Int32T, got)
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := qitype.NewRegistry()
	ti := qitype.NamedTypeInfo("scenario.overwrite")

	require.True(t, r.Register(ti, qitype.Int32T))
	require.True(t, r.Register(ti, qitype.StringT))

	got, ok := r.Get(ti)
	require.True(t, ok)
	require.Equal(t, qitype.StringT, got)
}

func TestRegistryIdentityByTypeInfo(t *testing.T) {
	a := qitype.Int32T
	b := qitype.Int32T
	require.True(t, a.Info().Equal(b.Info()))
	require.Equal(t, a, b)
}
