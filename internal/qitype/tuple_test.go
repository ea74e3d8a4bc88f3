package qitype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/qitype"
)

func TestTupleMemoizationByIdenticalKey(t *testing.T) {
	r := qitype.NewRegistry()
	a := r.NewTupleType([]qitype.Type{qitype.Int32T, qitype.StringT}, "Point", []string{"x", "y"})
	b := r.NewTupleType([]qitype.Type{qitype.Int32T, qitype.StringT}, "Point", []string{"x", "y"})
	require.Equal(t, a, b)

	c := r.NewTupleType([]qitype.Type{qitype.Int32T, qitype.StringT}, "Other", []string{"x", "y"})
	require.NotEqual(t, a.Info(), c.Info())
}

func TestTupleGetFailsOutOfRangeRatherThanGrowing(t *testing.T) {
	r := qitype.NewRegistry()
	tt := r.NewTupleType([]qitype.Type{qitype.Int32T}, "", nil).(qitype.TupleType)
	storage, err := tt.InitializeStorage(nil)
	require.NoError(t, err)

	_, err = tt.Get(storage, 5)
	require.ErrorIs(t, err, qitype.ErrOutOfRange)
}

func TestTupleSetClonesAndDestroysPrevious(t *testing.T) {
	r := qitype.NewRegistry()
	tt := r.NewTupleType([]qitype.Type{qitype.Int32T}, "", nil).(qitype.TupleType)
	storage, err := tt.InitializeStorage(nil)
	require.NoError(t, err)

	v, err := qitype.Int32T.InitializeStorage(int64(42))
	require.NoError(t, err)
	require.NoError(t, tt.Set(storage, 0, v))

	got, err := tt.Get(storage, 0)
	require.NoError(t, err)
	require.Equal(t, int64(42), qitype.Int32T.(qitype.IntType).GetInt(got))
}

func TestTupleSeededStorageWrongArityFails(t *testing.T) {
	r := qitype.NewRegistry()
	tt := r.NewTupleType([]qitype.Type{qitype.Int32T, qitype.StringT}, "", nil).(qitype.TupleType)
	one, err := qitype.Int32T.InitializeStorage(int64(1))
	require.NoError(t, err)

	_, err = tt.InitializeStorage([]qitype.Storage{one})
	require.ErrorIs(t, err, qitype.ErrStorageShapeMismatch)
}

func TestMakeGenericTupleAndPtr(t *testing.T) {
	r := qitype.NewRegistry()
	iv, err := qitype.Int32T.InitializeStorage(int64(7))
	require.NoError(t, err)
	sv, err := qitype.StringT.InitializeStorage("seven")
	require.NoError(t, err)

	tuple, err := qitype.MakeGenericTuple(r, []qitype.GenericValuePtr{
		{Type: qitype.Int32T, Storage: iv},
		{Type: qitype.StringT, Storage: sv},
	})
	require.NoError(t, err)
	defer tuple.Close()

	tt := tuple.Type.(qitype.TupleType)
	got, err := tt.Get(tuple.Storage, 1)
	require.NoError(t, err)
	require.Equal(t, "seven", qitype.StringT.(qitype.StringType).GetString(got))
}
