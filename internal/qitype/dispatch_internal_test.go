package qitype

import "testing"

// misdeclaredListType claims Kind() == List but implements none of
// ListType's extra methods, the "default Type implementation that
// doesn't implement the capability its own Kind promises" case
// dispatchFail exists to report.
type misdeclaredListType struct{}

func (misdeclaredListType) Info() TypeInfo                              { return NamedTypeInfo("test.misdeclaredList") }
func (misdeclaredListType) Kind() Kind                                  { return List }
func (misdeclaredListType) InitializeStorage(seed any) (Storage, error) { return Storage{}, nil }
func (misdeclaredListType) Clone(storage Storage) (Storage, error)      { return storage, nil }
func (misdeclaredListType) Destroy(storage Storage) error               { return nil }
func (misdeclaredListType) Less(a, b Storage) bool                      { return false }
func (misdeclaredListType) PtrFromStorage(storage Storage) any          { return nil }

func TestDispatchReportsFailureWhenCapabilityAssertionFails(t *testing.T) {
	typ := misdeclaredListType{}
	val := GenericValuePtr{Type: typ, Storage: Storage{}}

	if _, fired := DefaultFailureReporter.fired.Load(typ.Info().String()); fired {
		t.Fatal("failure reporter should not have fired yet")
	}

	v := &captureVisitor{}
	Dispatch(v, val)

	if v.lastCall != "unknown" {
		t.Fatalf("expected VisitUnknown to still be called, got %q", v.lastCall)
	}
	if _, fired := DefaultFailureReporter.fired.Load(typ.Info().String()); !fired {
		t.Fatal("expected the failed List capability assertion to report through FailureReporter")
	}
}

func TestFailureReporterFiresOnlyOnce(t *testing.T) {
	var r FailureReporter
	r.Fail("test.SomeType", "first")
	if _, fired := r.fired.Load("test.SomeType"); !fired {
		t.Fatal("expected Fail to record the type name")
	}
	// A second Fail for the same type name must not panic or reset
	// anything observable; the one-shot contract is exercised, not the
	// log output itself.
	r.Fail("test.SomeType", "second")
}

type captureVisitor struct {
	lastCall string
}

func (c *captureVisitor) VisitVoid(GenericValuePtr)                 { c.lastCall = "void" }
func (c *captureVisitor) VisitBool(GenericValuePtr, IntType)        { c.lastCall = "bool" }
func (c *captureVisitor) VisitInt(GenericValuePtr, IntType)         { c.lastCall = "int" }
func (c *captureVisitor) VisitFloat(GenericValuePtr, FloatType)     { c.lastCall = "float" }
func (c *captureVisitor) VisitString(GenericValuePtr, StringType)   { c.lastCall = "string" }
func (c *captureVisitor) VisitList(GenericValuePtr, ListType)       { c.lastCall = "list" }
func (c *captureVisitor) VisitMap(GenericValuePtr, MapType)         { c.lastCall = "map" }
func (c *captureVisitor) VisitTuple(GenericValuePtr, TupleType)     { c.lastCall = "tuple" }
func (c *captureVisitor) VisitObject(GenericValuePtr)               { c.lastCall = "object" }
func (c *captureVisitor) VisitPointer(GenericValuePtr, PointerType) { c.lastCall = "pointer" }
func (c *captureVisitor) VisitDynamic(GenericValuePtr, DynamicType) { c.lastCall = "dynamic" }
func (c *captureVisitor) VisitRaw(GenericValuePtr, RawType)         { c.lastCall = "raw" }
func (c *captureVisitor) VisitIterator(GenericValuePtr)             { c.lastCall = "iterator" }
func (c *captureVisitor) VisitUnknown(GenericValuePtr)              { c.lastCall = "unknown" }
