package signature

// numericInfo describes a numeric leaf for the widening rules in
// IsConvertibleTo: whether it's a float, its signedness (ignored for
// floats), and its byte width.
type numericInfo struct {
	isFloat bool
	signed  bool
	width   int
}

var numerics = map[byte]numericInfo{
	Int8:   {false, true, 1},
	UInt8:  {false, false, 1},
	Int16:  {false, true, 2},
	UInt16: {false, false, 2},
	Int32:  {false, true, 4},
	UInt32: {false, false, 4},
	Int64:  {false, true, 8},
	UInt64: {false, false, 8},
	Float:  {true, true, 4},
	Double: {true, true, 8},
}

// IsConvertibleTo implements spec.md §4.4's convertibility relation:
// identity, None acting as a universal source/sink, numeric widening,
// elementwise composite convertibility, and Dynamic's "accepts any and
// is accepted by any" rule.
func (a Signature) IsConvertibleTo(b Signature) bool {
	if !a.valid || !b.valid {
		return false
	}
	if a.Equal(b) {
		return true
	}
	if a.IsLeaf() && a.leaf == None {
		return true
	}
	if b.IsLeaf() && b.leaf == None {
		return true
	}
	if a.IsLeaf() && a.leaf == Dynamic {
		return true
	}
	if b.IsLeaf() && b.leaf == Dynamic {
		return true
	}
	if a.IsLeaf() && b.IsLeaf() {
		an, aok := numerics[a.leaf]
		bn, bok := numerics[b.leaf]
		if aok && bok {
			return isWideningConversion(an, bn)
		}
		return false
	}
	if a.composite != b.composite || a.composite == 0 {
		return false
	}
	switch a.composite {
	case listOpen:
		return a.children[0].IsConvertibleTo(b.children[0])
	case mapOpen:
		return a.children[0].IsConvertibleTo(b.children[0]) && a.children[1].IsConvertibleTo(b.children[1])
	case tupOpen:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !a.children[i].IsConvertibleTo(b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// isWideningConversion holds when from can widen to to: same-signedness
// wider int, int-to-float, or float-to-double.
func isWideningConversion(from, to numericInfo) bool {
	if !from.isFloat && !to.isFloat {
		return from.signed == to.signed && to.width >= from.width
	}
	if !from.isFloat && to.isFloat {
		return true
	}
	if from.isFloat && to.isFloat {
		return to.width >= from.width
	}
	return false
}
