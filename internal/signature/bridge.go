package signature

import (
	"fmt"

	"github.com/relaymesh/dynatype/internal/qilog"
	"github.com/relaymesh/dynatype/internal/qitype"
)

var bridgeLog = qilog.NewCategory("qitype.type")

// DeclaredSignatureOf derives a Signature from a Type descriptor alone,
// with no value or storage in hand — the path spec.md §4.5 requires
// signature_of to still support when resolve_dynamic is false and no
// storage is available (used for a List/Map's declared element type,
// and as the fallback when resolve_dynamic reconciliation fails).
func DeclaredSignatureOf(t qitype.Type) (Signature, error) {
	switch t.Kind() {
	case qitype.Void:
		return Leaf(Void), nil
	case qitype.Bool:
		return Leaf(Bool), nil
	case qitype.Int:
		it, ok := t.(qitype.IntType)
		if !ok {
			return Invalid, fmt.Errorf("signature: Int type %s lacks IntType capability", t.Info())
		}
		return Leaf(intLeaf(it.IsSigned(), it.Size())), nil
	case qitype.Float:
		ft, ok := t.(qitype.FloatType)
		if !ok {
			return Invalid, fmt.Errorf("signature: Float type %s lacks FloatType capability", t.Info())
		}
		if ft.Size() <= 4 {
			return Leaf(Float), nil
		}
		return Leaf(Double), nil
	case qitype.String:
		return Leaf(String), nil
	case qitype.List:
		lt, ok := t.(qitype.ListType)
		if !ok {
			return Invalid, fmt.Errorf("signature: List type %s lacks ListType capability", t.Info())
		}
		elem, err := DeclaredSignatureOf(lt.ElementType())
		if err != nil {
			return Invalid, err
		}
		return List(elem), nil
	case qitype.Map:
		mt, ok := t.(qitype.MapType)
		if !ok {
			return Invalid, fmt.Errorf("signature: Map type %s lacks MapType capability", t.Info())
		}
		key, err := DeclaredSignatureOf(mt.KeyType())
		if err != nil {
			return Invalid, err
		}
		val, err := DeclaredSignatureOf(mt.ElementType())
		if err != nil {
			return Invalid, err
		}
		return Map(key, val), nil
	case qitype.Tuple:
		tt, ok := t.(qitype.TupleType)
		if !ok {
			return Invalid, fmt.Errorf("signature: Tuple type %s lacks TupleType capability", t.Info())
		}
		members := make([]Signature, len(tt.MemberTypes()))
		for i, mt := range tt.MemberTypes() {
			s, err := DeclaredSignatureOf(mt)
			if err != nil {
				return Invalid, err
			}
			members[i] = s
		}
		return Tuple(members, tt.ClassName(), tt.ElementNames()), nil
	case qitype.Object:
		return Leaf(Object), nil
	case qitype.Pointer:
		pt, ok := t.(qitype.PointerType)
		if !ok {
			return Leaf(Unknown), nil
		}
		return pointerSignature(pt), nil
	case qitype.Dynamic:
		if t.Info().Equal(qitype.ObjectT.Info()) {
			return Leaf(Object), nil
		}
		return Leaf(Dynamic), nil
	case qitype.Raw:
		return Leaf(Raw), nil
	default:
		return Leaf(Unknown), nil
	}
}

func intLeaf(signed bool, size int) byte {
	switch size {
	case 1:
		if signed {
			return Int8
		}
		return UInt8
	case 2:
		if signed {
			return Int16
		}
		return UInt16
	case 4:
		if signed {
			return Int32
		}
		return UInt32
	default:
		if signed {
			return Int64
		}
		return UInt64
	}
}

func pointerSignature(pt qitype.PointerType) Signature {
	if pt.PointerKind() != qitype.PointerShared {
		return Leaf(Unknown)
	}
	switch pt.PointedType().Kind() {
	case qitype.Object:
		return Leaf(Object)
	case qitype.Unknown:
		bridgeLog.Verbose("assuming object not yet registered", "type", pt.Info().String())
		return Leaf(Object)
	default:
		return Leaf(Unknown)
	}
}

// sigVisitor implements qitype.Visitor, building a Signature as it
// goes. One visitor method sets exactly one of result/err, per
// Dispatch's one-call-per-value contract.
type sigVisitor struct {
	resolveDynamic bool
	result         Signature
	err            error
}

func (v *sigVisitor) VisitVoid(_ qitype.GenericValuePtr) { v.result = Leaf(Void) }
func (v *sigVisitor) VisitBool(_ qitype.GenericValuePtr, _ qitype.IntType) {
	v.result = Leaf(Bool)
}
func (v *sigVisitor) VisitInt(_ qitype.GenericValuePtr, t qitype.IntType) {
	v.result = Leaf(intLeaf(t.IsSigned(), t.Size()))
}
func (v *sigVisitor) VisitFloat(_ qitype.GenericValuePtr, t qitype.FloatType) {
	if t.Size() <= 4 {
		v.result = Leaf(Float)
	} else {
		v.result = Leaf(Double)
	}
}
func (v *sigVisitor) VisitString(_ qitype.GenericValuePtr, _ qitype.StringType) {
	v.result = Leaf(String)
}

func (v *sigVisitor) VisitList(val qitype.GenericValuePtr, t qitype.ListType) {
	if !v.resolveDynamic {
		s, err := DeclaredSignatureOf(t.ElementType())
		if err != nil {
			v.err = err
			return
		}
		v.result = List(s)
		return
	}
	var elemSigs []Signature
	end := t.End(val.Storage)
	for it := t.Begin(val.Storage); !it.Equals(end); it = it.Next() {
		s, err := SignatureOf(it.Dereference(), true)
		if err != nil {
			v.err = err
			return
		}
		elemSigs = append(elemSigs, s)
	}
	if len(elemSigs) == 0 {
		v.result = List(Leaf(None))
		return
	}
	if reconciled, ok := reconcileSignatures(elemSigs); ok {
		v.result = List(reconciled)
		return
	}
	bridgeLog.Debug("heterogeneous collection, falling back to declared element type", "type", t.Info().String())
	s, err := DeclaredSignatureOf(t.ElementType())
	if err != nil {
		v.err = err
		return
	}
	v.result = List(s)
}

func (v *sigVisitor) VisitMap(val qitype.GenericValuePtr, t qitype.MapType) {
	if !v.resolveDynamic {
		k, err := DeclaredSignatureOf(t.KeyType())
		if err != nil {
			v.err = err
			return
		}
		e, err := DeclaredSignatureOf(t.ElementType())
		if err != nil {
			v.err = err
			return
		}
		v.result = Map(k, e)
		return
	}
	var keySigs, valSigs []Signature
	end := t.End(val.Storage)
	for it := t.Begin(val.Storage); !it.Equals(end); it = it.Next() {
		pair := it.Dereference()
		pairType, ok := pair.Type.(qitype.TupleType)
		if !ok {
			v.err = fmt.Errorf("signature: map iterator pair is not a tuple")
			return
		}
		keyStorage, err := pairType.Get(pair.Storage, 0)
		if err != nil {
			v.err = err
			return
		}
		valStorage, err := pairType.Get(pair.Storage, 1)
		if err != nil {
			v.err = err
			return
		}
		memberTypes := pairType.MemberTypes()
		ks, err := SignatureOf(qitype.GenericValuePtr{Type: memberTypes[0], Storage: keyStorage}, true)
		if err != nil {
			v.err = err
			return
		}
		vs, err := SignatureOf(qitype.GenericValuePtr{Type: memberTypes[1], Storage: valStorage}, true)
		if err != nil {
			v.err = err
			return
		}
		keySigs = append(keySigs, ks)
		valSigs = append(valSigs, vs)
	}
	keySig, keyOk := reconcileSignatures(keySigs)
	if !keyOk {
		bridgeLog.Debug("heterogeneous collection, falling back to declared key type", "type", t.Info().String())
		s, err := DeclaredSignatureOf(t.KeyType())
		if err != nil {
			v.err = err
			return
		}
		keySig = s
	}
	valSig, valOk := reconcileSignatures(valSigs)
	if !valOk {
		bridgeLog.Debug("heterogeneous collection, falling back to declared element type", "type", t.Info().String())
		s, err := DeclaredSignatureOf(t.ElementType())
		if err != nil {
			v.err = err
			return
		}
		valSig = s
	}
	v.result = Map(keySig, valSig)
}

func (v *sigVisitor) VisitTuple(val qitype.GenericValuePtr, t qitype.TupleType) {
	memberTypes := t.MemberTypes()
	members := make([]Signature, len(memberTypes))
	for i, mt := range memberTypes {
		ms, err := t.Get(val.Storage, i)
		if err != nil {
			v.err = err
			return
		}
		s, err := SignatureOf(qitype.GenericValuePtr{Type: mt, Storage: ms}, v.resolveDynamic)
		if err != nil {
			v.err = err
			return
		}
		members[i] = s
	}
	elementNames := t.ElementNames()
	className := t.ClassName()
	if className == "" && len(elementNames) < len(members) {
		elementNames = nil
	}
	v.result = Tuple(members, className, elementNames)
}

func (v *sigVisitor) VisitObject(_ qitype.GenericValuePtr) { v.result = Leaf(Object) }

func (v *sigVisitor) VisitPointer(_ qitype.GenericValuePtr, t qitype.PointerType) {
	v.result = pointerSignature(t)
}

func (v *sigVisitor) VisitDynamic(val qitype.GenericValuePtr, t qitype.DynamicType) {
	if t.Info().Equal(qitype.ObjectT.Info()) {
		v.result = Leaf(Object)
		return
	}
	if !v.resolveDynamic {
		v.result = Leaf(Dynamic)
		return
	}
	inner := t.Get(val.Storage)
	if !inner.IsValid() {
		v.result = Leaf(Dynamic)
		return
	}
	s, err := SignatureOf(inner, true)
	if err != nil {
		v.err = err
		return
	}
	v.result = s
}

func (v *sigVisitor) VisitRaw(_ qitype.GenericValuePtr, _ qitype.RawType) { v.result = Leaf(Raw) }
func (v *sigVisitor) VisitIterator(_ qitype.GenericValuePtr)              { v.result = Leaf(Unknown) }
func (v *sigVisitor) VisitUnknown(_ qitype.GenericValuePtr)               { v.result = Leaf(Unknown) }

// reconcileSignatures implements the narrowing loop spec.md §4.5
// describes for both List and Map inference: start from the first
// element's signature and, for each following one, keep the wider of
// the two if convertible, else give up and report failure.
func reconcileSignatures(sigs []Signature) (Signature, bool) {
	if len(sigs) == 0 {
		return Invalid, false
	}
	first := sigs[0]
	for _, s := range sigs[1:] {
		if s.Equal(first) {
			continue
		}
		if s.IsConvertibleTo(first) {
			continue
		}
		if first.IsConvertibleTo(s) {
			first = s
			continue
		}
		return Invalid, false
	}
	return first, true
}

// SignatureOf runs the dispatcher over val with a signature-building
// visitor, implementing spec.md §4.5 in full including the
// resolve_dynamic reconciliation and heterogeneous-collection fallback.
func SignatureOf(val qitype.GenericValuePtr, resolveDynamic bool) (Signature, error) {
	v := &sigVisitor{resolveDynamic: resolveDynamic}
	qitype.Dispatch(v, val)
	if v.err != nil {
		return Invalid, v.err
	}
	return v.result, nil
}

// TypeFromSignature walks sig and manufactures a Type tree on reg,
// implementing spec.md §4.6. Primitive leaves resolve to the canonical
// descriptors registered by the qitype package's init; composites are
// built through the registry's memoized default-container factories.
// An unresolvable child returns qitype.ErrUnknownType.
func TypeFromSignature(reg *qitype.Registry, sig Signature) (qitype.Type, error) {
	if !sig.valid {
		return nil, qitype.ErrUnknownType
	}
	if sig.IsLeaf() {
		t, ok := primitiveForLeaf(sig.leaf)
		if !ok {
			bridgeLog.Error("unresolvable signature leaf", "leaf", string(rune(sig.leaf)))
			return nil, qitype.ErrUnknownType
		}
		return t, nil
	}
	switch sig.composite {
	case listOpen:
		elem, err := TypeFromSignature(reg, sig.children[0])
		if err != nil {
			return nil, err
		}
		return reg.NewListType(elem), nil
	case mapOpen:
		key, err := TypeFromSignature(reg, sig.children[0])
		if err != nil {
			return nil, err
		}
		val, err := TypeFromSignature(reg, sig.children[1])
		if err != nil {
			return nil, err
		}
		return reg.NewMapType(key, val), nil
	case tupOpen:
		types := make([]qitype.Type, len(sig.children))
		for i, c := range sig.children {
			t, err := TypeFromSignature(reg, c)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		return reg.NewTupleType(types, sig.className, sig.elementNames), nil
	default:
		return nil, qitype.ErrUnknownType
	}
}

func primitiveForLeaf(leaf byte) (qitype.Type, bool) {
	switch leaf {
	case Void, None:
		return qitype.VoidT, true
	case Bool:
		return qitype.BoolT, true
	case Int8:
		return qitype.Int8T, true
	case UInt8:
		return qitype.UInt8T, true
	case Int16:
		return qitype.Int16T, true
	case UInt16:
		return qitype.UInt16T, true
	case Int32:
		return qitype.Int32T, true
	case UInt32:
		return qitype.UInt32T, true
	case Int64:
		return qitype.Int64T, true
	case UInt64:
		return qitype.UInt64T, true
	case Float:
		return qitype.Float32T, true
	case Double:
		return qitype.Float64T, true
	case String:
		return qitype.StringT, true
	case Dynamic:
		return qitype.DynamicT, true
	case Raw:
		return qitype.RawT, true
	case Object:
		return qitype.ObjectT, true
	default:
		return nil, false
	}
}

// TypeFromSignatureString parses raw and materializes the first
// top-level element, tolerating trailing content the way
// type_from_signature's caller does for a misformed multi-element
// signature string (spec.md §4.6): log a warning rather than fail.
func TypeFromSignatureString(reg *qitype.Registry, raw string) (qitype.Type, error) {
	c := &cursor{s: raw}
	first, err := c.parseOne()
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	if !c.atEnd() {
		bridgeLog.Warning("signature has more than one top-level element, materializing only the first", "signature", raw)
	}
	return TypeFromSignature(reg, first)
}
