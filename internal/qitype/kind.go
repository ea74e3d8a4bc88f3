package qitype

// Kind is the closed classification every Type reports. It constrains
// which capability interfaces a Type is expected to implement.
type Kind uint8

const (
	Void Kind = iota
	Bool
	Int
	Float
	String
	List
	Map
	Tuple // a.k.a. Struct
	Object
	Pointer
	Dynamic
	Raw
	Iterator
	Unknown
)

var kindNames = [...]string{
	Void: "Void", Bool: "Bool", Int: "Int", Float: "Float", String: "String",
	List: "List", Map: "Map", Tuple: "Tuple", Object: "Object", Pointer: "Pointer",
	Dynamic: "Dynamic", Raw: "Raw", Iterator: "Iterator", Unknown: "Unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
