package qitype

// Storage is the opaque handle a Type uses to refer to one instance of
// its values. Only the Type that produced a Storage knows how to
// interpret it; everything else treats it as opaque. This replaces the
// original implementation's raw void* with a typed Go value per the
// redesign note in spec.md §9 ("Implementations SHOULD replace [void*]
// with a typed storage handle... preserving the contract that
// ptr_from_storage yields the address of the raw value").
type Storage struct {
	v any
}

// NewStorage boxes an arbitrary payload as a Storage handle.
func NewStorage(v any) Storage { return Storage{v: v} }

// IsZero reports whether the handle carries no payload.
func (s Storage) IsZero() bool { return s.v == nil }

// Value returns the boxed payload. Only a Type's own methods should
// call this on Storage values it produced itself.
func (s Storage) Value() any { return s.v }

// Type is the polymorphic capability object representing one type. A
// Type is immutable once registered: its Kind and TypeInfo never
// change, and any two Types for the same declared identity compare
// equal through their TypeInfo. Descriptors are process-wide and are
// never destroyed.
type Type interface {
	// Info returns the identity token for this Type.
	Info() TypeInfo
	// Kind returns the coarse classification used for dispatch.
	Kind() Kind
	// InitializeStorage allocates a fresh, default-constructed
	// instance. When seed is non-nil, the Type either constructs in
	// place using it or adopts it outright — the choice is
	// Type-specific and documented on each implementation.
	InitializeStorage(seed any) (Storage, error)
	// Clone deep-copies the value held in storage.
	Clone(storage Storage) (Storage, error)
	// Destroy releases storage and anything it owns.
	Destroy(storage Storage) error
	// Less imposes a total order over values of this Type, used by
	// the default map's key ordering.
	Less(a, b Storage) bool
	// PtrFromStorage returns the address of the raw value, i.e. the
	// concrete Go value a caller should type-assert against.
	PtrFromStorage(storage Storage) any
}

// IntType is the capability surface for Kind == Int.
type IntType interface {
	Type
	IsSigned() bool
	Size() int // 1, 2, 4, or 8 bytes
	GetInt(storage Storage) int64
	SetInt(storage Storage, v int64)
}

// FloatType is the capability surface for Kind == Float.
type FloatType interface {
	Type
	Size() int // 4 or 8 bytes
	GetFloat(storage Storage) float64
	SetFloat(storage Storage, v float64)
}

// StringType is the capability surface for Kind == String.
type StringType interface {
	Type
	GetString(storage Storage) string
	SetString(storage Storage, v string)
}

// ListType is the capability surface for Kind == List.
type ListType interface {
	Type
	ElementType() Type
	Begin(storage Storage) IteratorType
	End(storage Storage) IteratorType
	PushBack(storage Storage, valueStorage Storage) (Storage, error)
	// Element returns the storage at index, advancing an iterator by
	// default when the implementation offers no faster path. Returns
	// ErrOutOfRange if index is beyond the list's length.
	Element(storage Storage, index int) (Storage, error)
}

// IterateElement is the default List.Element implementation: advance
// an iterator index times. Any ListType that has no cheaper
// random-access path should implement Element by calling this.
func IterateElement(l ListType, storage Storage, index int) (Storage, error) {
	it := l.Begin(storage)
	end := l.End(storage)
	for p := 0; p != index; p++ {
		if it.Equals(end) {
			return Storage{}, ErrOutOfRange
		}
		it = it.Next()
	}
	if it.Equals(end) {
		return Storage{}, ErrOutOfRange
	}
	return it.Dereference().Storage, nil
}

// MapType is the capability surface for Kind == Map.
type MapType interface {
	Type
	KeyType() Type
	ElementType() Type
	Begin(storage Storage) IteratorType
	End(storage Storage) IteratorType
	Insert(storage Storage, keyStorage, valueStorage Storage) error
	// Element returns the value slot for keyStorage. If absent and
	// autoInsert is true, a default-initialized value is inserted and
	// returned; if absent and autoInsert is false, the returned
	// GenericValuePtr is the zero value.
	Element(storage Storage, keyStorage Storage, autoInsert bool) (GenericValuePtr, error)
	Size(storage Storage) int
}

// TupleType is the capability surface for Kind == Tuple.
type TupleType interface {
	Type
	MemberTypes() []Type
	Get(storage Storage, index int) (Storage, error)
	Set(storage Storage, index int, valueStorage Storage) error
	ElementNames() []string
	ClassName() string
}

// PointerKind distinguishes raw from shared/reference-counted pointers.
type PointerKind uint8

const (
	PointerRaw PointerKind = iota
	PointerShared
)

// PointerType is the capability surface for Kind == Pointer.
type PointerType interface {
	Type
	PointedType() Type
	PointerKind() PointerKind
	Dereference(storage Storage) (GenericValuePtr, error)
}

// DynamicType is the capability surface for Kind == Dynamic.
type DynamicType interface {
	Type
	Get(storage Storage) GenericValuePtr
	Set(storage Storage, v GenericValuePtr) error
}

// RawType is the capability surface for Kind == Raw (opaque bytes).
type RawType interface {
	Type
	GetBytes(storage Storage) []byte
	SetBytes(storage Storage, v []byte)
}

// IteratorType is the capability surface for Kind == Iterator.
type IteratorType interface {
	Dereference() GenericValuePtr
	Next() IteratorType
	Equals(other IteratorType) bool
}
