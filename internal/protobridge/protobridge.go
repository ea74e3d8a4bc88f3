// Package protobridge maps protobuf message and field descriptors onto
// the Signature grammar and, from there, onto qitype.Type trees — so a
// .proto file can seed the type system the same way a hand-written
// signature string does. Grounded on the descriptor-walking and
// protoparse.Parser usage in funvibe-funxy's internal/evaluator/
// builtins_grpc.go, which is this pack's only user of
// github.com/jhump/protoreflect and google.golang.org/protobuf.
package protobridge

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/relaymesh/dynatype/internal/qilog"
	"github.com/relaymesh/dynatype/internal/qitype"
	"github.com/relaymesh/dynatype/internal/signature"
)

var bridgeLog = qilog.NewCategory("qitype.protobridge")

// LoadFile parses a .proto file (and its transitive imports, resolved
// under importPaths) into its descriptor set.
func LoadFile(path string, importPaths []string) ([]*desc.FileDescriptor, error) {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	resolved, err := protoparse.ResolveFilenames(importPaths, path)
	if err != nil {
		return nil, fmt.Errorf("protobridge: resolving %s: %w", path, err)
	}
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(resolved...)
	if err != nil {
		return nil, fmt.Errorf("protobridge: parsing %s: %w", path, err)
	}
	return fds, nil
}

// SignatureForField renders one field's Signature, recursing into
// message and map fields and wrapping repeated fields in a list.
func SignatureForField(fd *desc.FieldDescriptor) (signature.Signature, error) {
	if fd.IsMap() {
		mapMsg := fd.GetMessageType()
		keySig, err := SignatureForField(mapMsg.FindFieldByName("key"))
		if err != nil {
			return signature.Invalid, err
		}
		valSig, err := SignatureForField(mapMsg.FindFieldByName("value"))
		if err != nil {
			return signature.Invalid, err
		}
		return signature.Map(keySig, valSig), nil
	}

	leafSig, err := scalarSignature(fd)
	if err != nil {
		return signature.Invalid, err
	}
	if fd.IsRepeated() {
		return signature.List(leafSig), nil
	}
	return leafSig, nil
}

func scalarSignature(fd *desc.FieldDescriptor) (signature.Signature, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return signature.Leaf(signature.Int32), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return signature.Leaf(signature.Int64), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return signature.Leaf(signature.UInt32), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return signature.Leaf(signature.UInt64), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return signature.Leaf(signature.Float), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return signature.Leaf(signature.Double), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return signature.Leaf(signature.Bool), nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return signature.Leaf(signature.String), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return signature.Leaf(signature.Raw), nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return signature.Leaf(signature.Int32), nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return SignatureForMessage(fd.GetMessageType())
	default:
		bridgeLog.Error("unmappable proto field type", "field", fd.GetFullyQualifiedName(), "type", fd.GetType().String())
		return signature.Invalid, fmt.Errorf("protobridge: unmappable field type %s on %s", fd.GetType(), fd.GetFullyQualifiedName())
	}
}

// SignatureForMessage renders a message descriptor as an annotated
// tuple Signature: one member per field, class name and element names
// taken from the message and field names.
func SignatureForMessage(md *desc.MessageDescriptor) (signature.Signature, error) {
	fields := md.GetFields()
	members := make([]signature.Signature, len(fields))
	names := make([]string, len(fields))
	for i, fd := range fields {
		s, err := SignatureForField(fd)
		if err != nil {
			return signature.Invalid, err
		}
		members[i] = s
		names[i] = fd.GetName()
	}
	return signature.Tuple(members, md.GetName(), names), nil
}

// TypeForMessage materializes md as a qitype.Type on reg, going
// through the Signature bridge so the resulting descriptor is
// memoized exactly like any hand-written signature would be.
func TypeForMessage(reg *qitype.Registry, md *desc.MessageDescriptor) (qitype.Type, error) {
	sig, err := SignatureForMessage(md)
	if err != nil {
		return nil, err
	}
	return signature.TypeFromSignature(reg, sig)
}
