package qitype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/qitype"
)

func TestMapMemoizationByKeyValuePair(t *testing.T) {
	r := qitype.NewRegistry()
	a := r.NewMapType(qitype.StringT, qitype.Int32T)
	b := r.NewMapType(qitype.StringT, qitype.Int32T)
	require.Equal(t, a, b)
}

func TestMapInsertAndElement(t *testing.T) {
	r := qitype.NewRegistry()
	mt := r.NewMapType(qitype.StringT, qitype.Int32T).(qitype.MapType)
	storage, err := mt.InitializeStorage(nil)
	require.NoError(t, err)

	k1, _ := qitype.StringT.InitializeStorage("k1")
	v1, _ := qitype.Int32T.InitializeStorage(int64(1))
	require.NoError(t, mt.Insert(storage, k1, v1))

	k2, _ := qitype.StringT.InitializeStorage("k2")
	v2, _ := qitype.Int32T.InitializeStorage(int64(2))
	require.NoError(t, mt.Insert(storage, k2, v2))

	require.Equal(t, 2, mt.Size(storage))

	lookup, _ := qitype.StringT.InitializeStorage("k1")
	got, err := mt.Element(storage, lookup, false)
	require.NoError(t, err)
	require.True(t, got.IsValid())
	require.Equal(t, int64(1), qitype.Int32T.(qitype.IntType).GetInt(got.Storage))
}

func TestMapElementAutoInsertDefault(t *testing.T) {
	r := qitype.NewRegistry()
	mt := r.NewMapType(qitype.StringT, qitype.Int32T).(qitype.MapType)
	storage, err := mt.InitializeStorage(nil)
	require.NoError(t, err)

	key, _ := qitype.StringT.InitializeStorage("missing")
	got, err := mt.Element(storage, key, true)
	require.NoError(t, err)
	require.True(t, got.IsValid())
	require.Equal(t, int64(0), qitype.Int32T.(qitype.IntType).GetInt(got.Storage))
	require.Equal(t, 1, mt.Size(storage))
}

func TestMapElementNoAutoInsertReturnsInvalid(t *testing.T) {
	r := qitype.NewRegistry()
	mt := r.NewMapType(qitype.StringT, qitype.Int32T).(qitype.MapType)
	storage, err := mt.InitializeStorage(nil)
	require.NoError(t, err)

	key, _ := qitype.StringT.InitializeStorage("missing")
	got, err := mt.Element(storage, key, false)
	require.NoError(t, err)
	require.False(t, got.IsValid())
	require.Equal(t, 0, mt.Size(storage))
}

func TestMapIteratorDereferencesToPair(t *testing.T) {
	r := qitype.NewRegistry()
	mt := r.NewMapType(qitype.StringT, qitype.Int32T).(qitype.MapType)
	storage, err := mt.InitializeStorage(nil)
	require.NoError(t, err)

	k, _ := qitype.StringT.InitializeStorage("only")
	v, _ := qitype.Int32T.InitializeStorage(int64(9))
	require.NoError(t, mt.Insert(storage, k, v))

	it := mt.Begin(storage)
	pair := it.Dereference()
	pairType, ok := pair.Type.(qitype.TupleType)
	require.True(t, ok, "map iterator must dereference to the (key, value) pair tuple")

	keyStorage, err := pairType.Get(pair.Storage, 0)
	require.NoError(t, err)
	require.Equal(t, "only", qitype.StringT.(qitype.StringType).GetString(keyStorage))

	valStorage, err := pairType.Get(pair.Storage, 1)
	require.NoError(t, err)
	require.Equal(t, int64(9), qitype.Int32T.(qitype.IntType).GetInt(valStorage))
}

func TestMapKeyOrderIsStable(t *testing.T) {
	r := qitype.NewRegistry()
	mt := r.NewMapType(qitype.StringT, qitype.Int32T).(qitype.MapType)
	storage, err := mt.InitializeStorage(nil)
	require.NoError(t, err)

	for _, k := range []string{"c", "a", "b"} {
		ks, _ := qitype.StringT.InitializeStorage(k)
		vs, _ := qitype.Int32T.InitializeStorage(int64(0))
		require.NoError(t, mt.Insert(storage, ks, vs))
	}

	var order []string
	end := mt.End(storage)
	for it := mt.Begin(storage); !it.Equals(end); it = it.Next() {
		pair := it.Dereference()
		pairType := pair.Type.(qitype.TupleType)
		ks, _ := pairType.Get(pair.Storage, 0)
		order = append(order, qitype.StringT.(qitype.StringType).GetString(ks))
	}
	require.Equal(t, []string{"a", "b", "c"}, order)
}
