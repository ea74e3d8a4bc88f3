package qitype

import "reflect"

// The canonical primitive descriptors every signature leaf maps to
// (spec.md §4.6). These are registered on DefaultRegistry at package
// init, the Go equivalent of the original's function-local "static
// Type* tv = typeOf<void>()" table inside fromSignature().
var (
	VoidT    Type
	BoolT    Type
	Int8T    Type
	UInt8T   Type
	Int16T   Type
	UInt16T  Type
	Int32T   Type
	UInt32T  Type
	Int64T   Type
	UInt64T  Type
	Float32T Type
	Float64T Type
	StringT  Type
	RawT     Type
	DynamicT Type
	ObjectT  Type
)

func init() {
	VoidT = &voidType{info: NativeTypeInfo(reflect.TypeOf(struct{}{}))}
	BoolT = &boolType{info: NativeTypeInfo(reflect.TypeOf(false))}
	Int8T = &intType{info: NativeTypeInfo(reflect.TypeOf(int8(0))), signed: true, size: 1}
	UInt8T = &intType{info: NativeTypeInfo(reflect.TypeOf(uint8(0))), signed: false, size: 1}
	Int16T = &intType{info: NativeTypeInfo(reflect.TypeOf(int16(0))), signed: true, size: 2}
	UInt16T = &intType{info: NativeTypeInfo(reflect.TypeOf(uint16(0))), signed: false, size: 2}
	Int32T = &intType{info: NativeTypeInfo(reflect.TypeOf(int32(0))), signed: true, size: 4}
	UInt32T = &intType{info: NativeTypeInfo(reflect.TypeOf(uint32(0))), signed: false, size: 4}
	Int64T = &intType{info: NativeTypeInfo(reflect.TypeOf(int64(0))), signed: true, size: 8}
	UInt64T = &intType{info: NativeTypeInfo(reflect.TypeOf(uint64(0))), signed: false, size: 8}
	Float32T = &floatType{info: NativeTypeInfo(reflect.TypeOf(float32(0))), size: 4}
	Float64T = &floatType{info: NativeTypeInfo(reflect.TypeOf(float64(0))), size: 8}
	StringT = &stringType{info: NativeTypeInfo(reflect.TypeOf(""))}
	RawT = &rawType{info: NativeTypeInfo(reflect.TypeOf([]byte(nil)))}
	DynamicT = &dynamicType{info: NativeTypeInfo(reflect.TypeOf(GenericValue{}))}
	ObjectT = &objectType{info: NamedTypeInfo("qi.ObjectPtr")}

	for _, t := range []Type{
		VoidT, BoolT, Int8T, UInt8T, Int16T, UInt16T, Int32T, UInt32T,
		Int64T, UInt64T, Float32T, Float64T, StringT, RawT, DynamicT, ObjectT,
	} {
		DefaultRegistry.Register(t.Info(), t)
	}
}

// --- Void ---

type voidType struct{ info TypeInfo }

func (t *voidType) Info() TypeInfo { return t.info }
func (t *voidType) Kind() Kind     { return Void }
func (t *voidType) InitializeStorage(seed any) (Storage, error) {
	return NewStorage(struct{}{}), nil
}
func (t *voidType) Clone(storage Storage) (Storage, error)   { return storage, nil }
func (t *voidType) Destroy(storage Storage) error            { return nil }
func (t *voidType) Less(a, b Storage) bool                   { return false }
func (t *voidType) PtrFromStorage(storage Storage) any        { return nil }

// --- Bool ---

type boolType struct{ info TypeInfo }

func (t *boolType) Info() TypeInfo { return t.info }
func (t *boolType) Kind() Kind     { return Bool }
func (t *boolType) InitializeStorage(seed any) (Storage, error) {
	v := new(bool)
	if b, ok := seed.(bool); ok {
		*v = b
	}
	return NewStorage(v), nil
}
func (t *boolType) Clone(storage Storage) (Storage, error) {
	v := new(bool)
	*v = *storage.Value().(*bool)
	return NewStorage(v), nil
}
func (t *boolType) Destroy(storage Storage) error { return nil }
func (t *boolType) Less(a, b Storage) bool {
	av, bv := *a.Value().(*bool), *b.Value().(*bool)
	return !av && bv
}
func (t *boolType) PtrFromStorage(storage Storage) any { return storage.Value().(*bool) }

// Bool shares the IntType capability surface, reporting byte size 0;
// Dispatch and signature inference route it by Kind to VisitBool and
// the 'b' leaf, not through the Int path.
func (t *boolType) IsSigned() bool { return true }
func (t *boolType) Size() int      { return 0 }
func (t *boolType) GetInt(storage Storage) int64 {
	if *storage.Value().(*bool) {
		return 1
	}
	return 0
}
func (t *boolType) SetInt(storage Storage, v int64) { *storage.Value().(*bool) = v != 0 }

// --- Int ---

type intType struct {
	info   TypeInfo
	signed bool
	size   int
}

func (t *intType) Info() TypeInfo { return t.info }
func (t *intType) Kind() Kind     { return Int }
func (t *intType) InitializeStorage(seed any) (Storage, error) {
	v := new(int64)
	switch s := seed.(type) {
	case int64:
		*v = s
	case int:
		*v = int64(s)
	}
	return NewStorage(v), nil
}
func (t *intType) Clone(storage Storage) (Storage, error) {
	v := new(int64)
	*v = *storage.Value().(*int64)
	return NewStorage(v), nil
}
func (t *intType) Destroy(storage Storage) error { return nil }
func (t *intType) Less(a, b Storage) bool {
	return *a.Value().(*int64) < *b.Value().(*int64)
}
func (t *intType) PtrFromStorage(storage Storage) any { return storage.Value().(*int64) }
func (t *intType) IsSigned() bool                     { return t.signed }
func (t *intType) Size() int                          { return t.size }
func (t *intType) GetInt(storage Storage) int64       { return *storage.Value().(*int64) }
func (t *intType) SetInt(storage Storage, v int64)    { *storage.Value().(*int64) = v }

// --- Float ---

type floatType struct {
	info TypeInfo
	size int
}

func (t *floatType) Info() TypeInfo { return t.info }
func (t *floatType) Kind() Kind     { return Float }
func (t *floatType) InitializeStorage(seed any) (Storage, error) {
	v := new(float64)
	if f, ok := seed.(float64); ok {
		*v = f
	}
	return NewStorage(v), nil
}
func (t *floatType) Clone(storage Storage) (Storage, error) {
	v := new(float64)
	*v = *storage.Value().(*float64)
	return NewStorage(v), nil
}
func (t *floatType) Destroy(storage Storage) error { return nil }
func (t *floatType) Less(a, b Storage) bool {
	return *a.Value().(*float64) < *b.Value().(*float64)
}
func (t *floatType) PtrFromStorage(storage Storage) any { return storage.Value().(*float64) }
func (t *floatType) Size() int                          { return t.size }
func (t *floatType) GetFloat(storage Storage) float64   { return *storage.Value().(*float64) }
func (t *floatType) SetFloat(storage Storage, v float64) { *storage.Value().(*float64) = v }

// --- String ---

type stringType struct{ info TypeInfo }

func (t *stringType) Info() TypeInfo { return t.info }
func (t *stringType) Kind() Kind     { return String }
func (t *stringType) InitializeStorage(seed any) (Storage, error) {
	v := new(string)
	if s, ok := seed.(string); ok {
		*v = s
	}
	return NewStorage(v), nil
}
func (t *stringType) Clone(storage Storage) (Storage, error) {
	v := new(string)
	*v = *storage.Value().(*string)
	return NewStorage(v), nil
}
func (t *stringType) Destroy(storage Storage) error { return nil }
func (t *stringType) Less(a, b Storage) bool {
	return *a.Value().(*string) < *b.Value().(*string)
}
func (t *stringType) PtrFromStorage(storage Storage) any { return storage.Value().(*string) }
func (t *stringType) GetString(storage Storage) string   { return *storage.Value().(*string) }
func (t *stringType) SetString(storage Storage, v string) { *storage.Value().(*string) = v }

// --- Raw ---

type rawType struct{ info TypeInfo }

func (t *rawType) Info() TypeInfo { return t.info }
func (t *rawType) Kind() Kind     { return Raw }
func (t *rawType) InitializeStorage(seed any) (Storage, error) {
	v := new([]byte)
	if b, ok := seed.([]byte); ok {
		*v = append([]byte(nil), b...)
	}
	return NewStorage(v), nil
}
func (t *rawType) Clone(storage Storage) (Storage, error) {
	v := new([]byte)
	*v = append([]byte(nil), (*storage.Value().(*[]byte))...)
	return NewStorage(v), nil
}
func (t *rawType) Destroy(storage Storage) error { return nil }
func (t *rawType) Less(a, b Storage) bool {
	av, bv := *a.Value().(*[]byte), *b.Value().(*[]byte)
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		if av[i] != bv[i] {
			return av[i] < bv[i]
		}
	}
	return len(av) < len(bv)
}
func (t *rawType) PtrFromStorage(storage Storage) any { return storage.Value().(*[]byte) }
func (t *rawType) GetBytes(storage Storage) []byte    { return *storage.Value().(*[]byte) }
func (t *rawType) SetBytes(storage Storage, v []byte) {
	*storage.Value().(*[]byte) = append([]byte(nil), v...)
}

// --- Dynamic ---

type dynamicType struct{ info TypeInfo }

func (t *dynamicType) Info() TypeInfo { return t.info }
func (t *dynamicType) Kind() Kind     { return Dynamic }
func (t *dynamicType) InitializeStorage(seed any) (Storage, error) {
	v := new(GenericValue)
	if inner, ok := seed.(GenericValuePtr); ok {
		cloned, err := inner.Clone()
		if err != nil {
			return Storage{}, err
		}
		*v = cloned
	}
	return NewStorage(v), nil
}
func (t *dynamicType) Clone(storage Storage) (Storage, error) {
	src := storage.Value().(*GenericValue)
	v := new(GenericValue)
	if src.Type != nil {
		cloned, err := src.Ptr().Clone()
		if err != nil {
			return Storage{}, err
		}
		*v = cloned
	}
	return NewStorage(v), nil
}
func (t *dynamicType) Destroy(storage Storage) error {
	return storage.Value().(*GenericValue).Close()
}
func (t *dynamicType) Less(a, b Storage) bool { return false }
func (t *dynamicType) PtrFromStorage(storage Storage) any {
	return storage.Value().(*GenericValue)
}
func (t *dynamicType) Get(storage Storage) GenericValuePtr {
	return storage.Value().(*GenericValue).Ptr()
}
func (t *dynamicType) Set(storage Storage, v GenericValuePtr) error {
	cur := storage.Value().(*GenericValue)
	if cur.Type != nil {
		if err := cur.Close(); err != nil {
			return err
		}
	}
	cloned, err := v.Clone()
	if err != nil {
		return err
	}
	*cur = cloned
	return nil
}

// --- Object (opaque RPC object reference; identity only) ---

type objectType struct{ info TypeInfo }

func (t *objectType) Info() TypeInfo { return t.info }
func (t *objectType) Kind() Kind     { return Object }
func (t *objectType) InitializeStorage(seed any) (Storage, error) {
	return NewStorage(seed), nil
}
func (t *objectType) Clone(storage Storage) (Storage, error) { return storage, nil }
func (t *objectType) Destroy(storage Storage) error          { return nil }
func (t *objectType) Less(a, b Storage) bool                 { return false }
func (t *objectType) PtrFromStorage(storage Storage) any      { return storage.Value() }
