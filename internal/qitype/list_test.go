package qitype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/qitype"
)

func TestListMemoizationIsPerElementType(t *testing.T) {
	r := qitype.NewRegistry()
	a := r.NewListType(qitype.Int32T)
	b := r.NewListType(qitype.Int32T)
	require.Equal(t, a, b, "two requests for the same element type must return the identical descriptor")

	c := r.NewListType(qitype.StringT)
	require.NotEqual(t, a.Info(), c.Info())
}

func TestListPushBackCloneAndElement(t *testing.T) {
	r := qitype.NewRegistry()
	lt := r.NewListType(qitype.Int32T).(qitype.ListType)

	storage, err := lt.InitializeStorage(nil)
	require.NoError(t, err)

	one, err := qitype.Int32T.InitializeStorage(int64(1))
	require.NoError(t, err)
	storage, err = lt.PushBack(storage, one)
	require.NoError(t, err)

	two, err := qitype.Int32T.InitializeStorage(int64(2))
	require.NoError(t, err)
	storage, err = lt.PushBack(storage, two)
	require.NoError(t, err)

	s0, err := lt.Element(storage, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), qitype.Int32T.(qitype.IntType).GetInt(s0))

	s1, err := lt.Element(storage, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), qitype.Int32T.(qitype.IntType).GetInt(s1))

	_, err = lt.Element(storage, 2)
	require.ErrorIs(t, err, qitype.ErrOutOfRange)
}

func TestListIterateElementDefault(t *testing.T) {
	r := qitype.NewRegistry()
	lt := r.NewListType(qitype.Int32T).(qitype.ListType)
	storage, err := lt.InitializeStorage(nil)
	require.NoError(t, err)

	for i := int64(0); i < 3; i++ {
		s, err := qitype.Int32T.InitializeStorage(i)
		require.NoError(t, err)
		storage, err = lt.PushBack(storage, s)
		require.NoError(t, err)
	}

	got, err := qitype.IterateElement(lt, storage, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), qitype.Int32T.(qitype.IntType).GetInt(got))

	_, err = qitype.IterateElement(lt, storage, 3)
	require.ErrorIs(t, err, qitype.ErrOutOfRange)
}

func TestListCloneThenDestroyIsNoop(t *testing.T) {
	r := qitype.NewRegistry()
	lt := r.NewListType(qitype.StringT).(qitype.ListType)
	storage, err := lt.InitializeStorage(nil)
	require.NoError(t, err)
	s, err := qitype.StringT.InitializeStorage("hello")
	require.NoError(t, err)
	storage, err = lt.PushBack(storage, s)
	require.NoError(t, err)

	cloned, err := lt.Clone(storage)
	require.NoError(t, err)
	require.NoError(t, lt.Destroy(cloned))
	require.NoError(t, lt.Destroy(storage))
}
