package qitype

// GenericValuePtr pairs a Type with a Storage handle it does not own.
// Callers must ensure the underlying value outlives the borrow.
type GenericValuePtr struct {
	Type    Type
	Storage Storage
}

// IsValid reports whether this GenericValuePtr carries a usable Type.
func (p GenericValuePtr) IsValid() bool { return p.Type != nil }

// Clone produces an owning GenericValue, deep-copying the storage via
// the Type's own Clone.
func (p GenericValuePtr) Clone() (GenericValue, error) {
	if p.Type == nil {
		return GenericValue{}, nil
	}
	cloned, err := p.Type.Clone(p.Storage)
	if err != nil {
		return GenericValue{}, err
	}
	return GenericValue{Type: p.Type, Storage: cloned}, nil
}

// GenericValueRef is a borrow over a value that already lives in a Go
// variable rather than inside a Type-managed Storage slot — the
// counterpart of the original implementation's trick of constructing a
// GenericValueRef directly from a native iterator to avoid an extra
// copy. In Go this collapses to GenericValuePtr: boxing an address in
// Storage is already allocation-free, so NewGenericValueRef is a thin,
// documented alias rather than a distinct representation.
func NewGenericValueRef(t Type, v any) GenericValuePtr {
	return GenericValuePtr{Type: t, Storage: NewStorage(v)}
}

// GenericValue is an owning (Type, Storage) pair. Close must be called
// exactly once to release it — the explicit-ownership counterpart of
// the original's destructor-driven Type::destroy.
type GenericValue struct {
	Type    Type
	Storage Storage
}

// Ptr returns a non-owning borrow over this value.
func (v GenericValue) Ptr() GenericValuePtr {
	return GenericValuePtr{Type: v.Type, Storage: v.Storage}
}

// Close destroys the owned storage. Safe to call on the zero value.
func (v GenericValue) Close() error {
	if v.Type == nil {
		return nil
	}
	return v.Type.Destroy(v.Storage)
}

// MakeGenericTuple builds a new tuple GenericValue by cloning each of
// values into a freshly synthesized tuple Type's storage. The tuple's
// member types are taken from values themselves, mirroring the
// original makeGenericTuple(const std::vector<GenericValuePtr>&).
func MakeGenericTuple(reg *Registry, values []GenericValuePtr) (GenericValue, error) {
	types := make([]Type, len(values))
	for i, v := range values {
		types[i] = v.Type
	}
	tt := reg.NewTupleType(types, "", nil)
	tuple := tt.(TupleType)
	storage, err := tuple.InitializeStorage(nil)
	if err != nil {
		return GenericValue{}, err
	}
	for i, v := range values {
		if err := tuple.Set(storage, i, v.Storage); err != nil {
			_ = tuple.Destroy(storage)
			return GenericValue{}, err
		}
	}
	return GenericValue{Type: tt, Storage: storage}, nil
}

// MakeGenericTuplePtr builds a tuple GenericValuePtr that adopts the
// given storages directly (no clone), the seeded-storage counterpart
// of MakeGenericTuple, mirroring makeGenericTuplePtr.
func MakeGenericTuplePtr(reg *Registry, types []Type, storages []Storage) (GenericValuePtr, error) {
	tt := reg.NewTupleType(types, "", nil)
	tuple := tt.(TupleType)
	storage, err := tuple.InitializeStorage(storages)
	if err != nil {
		return GenericValuePtr{}, err
	}
	return GenericValuePtr{Type: tt, Storage: storage}, nil
}
