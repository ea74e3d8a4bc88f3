package qitype

import "reflect"

// TypeInfo is the identity token for a Type: either a native Go type
// (via reflect.Type, the direct analogue of std::type_info) or an
// opaque name for synthesized types that have no single native Go
// representative (default lists, maps, tuples).
//
// Equality compares within-variant; native TypeInfo values sort before
// named ones. Go exposes no pointer-order relation on reflect.Type the
// way C++'s type_info::before does, so native ordering falls back to
// the type's String() form — see DESIGN.md for this Open Question
// resolution.
type TypeInfo struct {
	native reflect.Type
	name   string
}

// NativeTypeInfo returns the TypeInfo identifying a native Go type.
func NativeTypeInfo(t reflect.Type) TypeInfo {
	return TypeInfo{native: t}
}

// NamedTypeInfo returns the TypeInfo identifying a synthesized type by name.
func NamedTypeInfo(name string) TypeInfo {
	return TypeInfo{name: name}
}

// IsNative reports whether this TypeInfo wraps a native Go type.
func (t TypeInfo) IsNative() bool { return t.native != nil }

// String returns the native type's name, or the custom name.
func (t TypeInfo) String() string {
	if t.native != nil {
		return t.native.String()
	}
	return t.name
}

// Equal reports identity equality, comparing within-variant only.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if (t.native != nil) != (o.native != nil) {
		return false
	}
	if t.native != nil {
		return t.native == o.native
	}
	return t.name == o.name
}

// Less orders native TypeInfo values before named ones; within a
// variant, native values order by String() and named values
// lexicographically.
func (t TypeInfo) Less(o TypeInfo) bool {
	if (t.native != nil) != (o.native != nil) {
		return t.native != nil
	}
	if t.native != nil {
		return t.native.String() < o.native.String()
	}
	return t.name < o.name
}
