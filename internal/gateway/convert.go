// Package gateway exposes a registry of qitype-typed method handlers
// as a live gRPC service, using jhump/protoreflect's dynamic.Message
// as the wire representation instead of generated proto stubs —
// dynamic.Message already implements proto.Message, so grpc-go's
// built-in codec marshals it with no custom Codec required. Grounded
// on funvibe-funxy's internal/evaluator/builtins_grpc.go
// (GrpcServerObject, builtinGrpcRegister, FunxyGrpcHandler.HandleUnary).
package gateway

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/relaymesh/dynatype/internal/qilog"
	"github.com/relaymesh/dynatype/internal/qitype"
)

var convertLog = qilog.NewCategory("qitype.gateway")

// toDynamicMessage populates msg's fields from a tuple-shaped qitype
// value, mirroring objectToDynamicMessage's field-by-field walk.
func toDynamicMessage(val qitype.GenericValuePtr, msg *dynamic.Message) error {
	tt, ok := val.Type.(qitype.TupleType)
	if !ok {
		return fmt.Errorf("gateway: expected a Tuple value, got kind %v", val.Type.Kind())
	}
	names := tt.ElementNames()
	members := tt.MemberTypes()
	for i, name := range names {
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		memberStorage, err := tt.Get(val.Storage, i)
		if err != nil {
			return fmt.Errorf("gateway: field %s: %w", name, err)
		}
		member := qitype.GenericValuePtr{Type: members[i], Storage: memberStorage}
		v, err := toProtoValue(member, fd)
		if err != nil {
			return fmt.Errorf("gateway: field %s: %w", name, err)
		}
		if v != nil {
			if err := msg.TrySetField(fd, v); err != nil {
				return fmt.Errorf("gateway: setting field %s: %w", name, err)
			}
		}
	}
	return nil
}

func toProtoValue(val qitype.GenericValuePtr, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		lt, ok := val.Type.(qitype.ListType)
		if !ok {
			return nil, fmt.Errorf("expected a List value for repeated field %s", fd.GetName())
		}
		var slice []interface{}
		end := lt.End(val.Storage)
		for it := lt.Begin(val.Storage); !it.Equals(end); it = it.Next() {
			elem := it.Dereference()
			v, err := toProtoSingleValue(elem, fd)
			if err != nil {
				return nil, err
			}
			slice = append(slice, v)
		}
		return slice, nil
	}
	return toProtoSingleValue(val, fd)
}

func toProtoSingleValue(val qitype.GenericValuePtr, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32, descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		it, ok := val.Type.(qitype.IntType)
		if !ok {
			return nil, fmt.Errorf("expected an Int value for field %s", fd.GetName())
		}
		return int32(it.GetInt(val.Storage)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		it, ok := val.Type.(qitype.IntType)
		if !ok {
			return nil, fmt.Errorf("expected an Int value for field %s", fd.GetName())
		}
		return uint32(it.GetInt(val.Storage)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		it, ok := val.Type.(qitype.IntType)
		if !ok {
			return nil, fmt.Errorf("expected an Int value for field %s", fd.GetName())
		}
		return it.GetInt(val.Storage), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		it, ok := val.Type.(qitype.IntType)
		if !ok {
			return nil, fmt.Errorf("expected an Int value for field %s", fd.GetName())
		}
		return uint64(it.GetInt(val.Storage)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		ft, ok := val.Type.(qitype.FloatType)
		if !ok {
			return nil, fmt.Errorf("expected a Float value for field %s", fd.GetName())
		}
		return float32(ft.GetFloat(val.Storage)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		ft, ok := val.Type.(qitype.FloatType)
		if !ok {
			return nil, fmt.Errorf("expected a Float value for field %s", fd.GetName())
		}
		return ft.GetFloat(val.Storage), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		it, ok := val.Type.(qitype.IntType)
		if !ok {
			return nil, fmt.Errorf("expected a Bool value for field %s", fd.GetName())
		}
		return it.GetInt(val.Storage) != 0, nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		st, ok := val.Type.(qitype.StringType)
		if !ok {
			return nil, fmt.Errorf("expected a String value for field %s", fd.GetName())
		}
		return st.GetString(val.Storage), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		rt, ok := val.Type.(qitype.RawType)
		if !ok {
			return nil, fmt.Errorf("expected a Raw value for field %s", fd.GetName())
		}
		return rt.GetBytes(val.Storage), nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := toDynamicMessage(val, nested); err != nil {
			return nil, err
		}
		return nested, nil
	default:
		convertLog.Error("unmappable field on outbound conversion", "field", fd.GetFullyQualifiedName(), "type", fd.GetType().String())
		return nil, fmt.Errorf("gateway: unmappable field type %s on %s", fd.GetType(), fd.GetFullyQualifiedName())
	}
}

// fromDynamicMessage builds a tuple-shaped qitype value out of msg,
// using typ (ordinarily produced by protobridge.TypeForMessage) to
// know each member's expected Type so storages can be constructed
// with the right shape. Mirrors dynamicMessageToObject.
func fromDynamicMessage(reg *qitype.Registry, typ qitype.Type, msg *dynamic.Message) (qitype.GenericValue, error) {
	tt, ok := typ.(qitype.TupleType)
	if !ok {
		return qitype.GenericValue{}, fmt.Errorf("gateway: expected a Tuple type, got kind %v", typ.Kind())
	}
	members := tt.MemberTypes()
	storages := make([]qitype.Storage, len(members))
	for i, fieldType := range members {
		name := tt.ElementNames()[i]
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			s, err := fieldType.InitializeStorage(nil)
			if err != nil {
				return qitype.GenericValue{}, err
			}
			storages[i] = s
			continue
		}
		v := msg.GetField(fd)
		member, err := fromProtoValue(reg, fieldType, v, fd)
		if err != nil {
			return qitype.GenericValue{}, fmt.Errorf("gateway: field %s: %w", name, err)
		}
		storages[i] = member.Storage
	}
	storage, err := tt.InitializeStorage(storages)
	if err != nil {
		return qitype.GenericValue{}, err
	}
	return qitype.GenericValue{Type: tt, Storage: storage}, nil
}

func fromProtoValue(reg *qitype.Registry, fieldType qitype.Type, val interface{}, fd *desc.FieldDescriptor) (qitype.GenericValue, error) {
	if fd.IsRepeated() {
		lt, ok := fieldType.(qitype.ListType)
		if !ok {
			return qitype.GenericValue{}, fmt.Errorf("expected a List type for repeated field %s", fd.GetName())
		}
		storage, err := lt.InitializeStorage(nil)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		slice, _ := val.([]interface{})
		for _, item := range slice {
			elem, err := fromProtoSingleValue(reg, lt.ElementType(), item, fd)
			if err != nil {
				return qitype.GenericValue{}, err
			}
			if storage, err = lt.PushBack(storage, elem.Storage); err != nil {
				return qitype.GenericValue{}, err
			}
		}
		return qitype.GenericValue{Type: lt, Storage: storage}, nil
	}
	return fromProtoSingleValue(reg, fieldType, val, fd)
}

func fromProtoSingleValue(reg *qitype.Registry, fieldType qitype.Type, val interface{}, fd *desc.FieldDescriptor) (qitype.GenericValue, error) {
	if val == nil {
		storage, err := fieldType.InitializeStorage(nil)
		return qitype.GenericValue{Type: fieldType, Storage: storage}, err
	}
	switch v := val.(type) {
	case int32:
		return newInt(fieldType, int64(v))
	case int64:
		return newInt(fieldType, v)
	case uint32:
		return newInt(fieldType, int64(v))
	case uint64:
		return newInt(fieldType, int64(v))
	case int:
		return newInt(fieldType, int64(v))
	case float32:
		return newFloat(fieldType, float64(v))
	case float64:
		return newFloat(fieldType, v)
	case bool:
		it, ok := fieldType.(qitype.IntType)
		if !ok {
			return qitype.GenericValue{}, fmt.Errorf("expected a Bool-compatible type for field %s", fd.GetName())
		}
		storage, err := it.InitializeStorage(nil)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		n := int64(0)
		if v {
			n = 1
		}
		it.SetInt(storage, n)
		return qitype.GenericValue{Type: fieldType, Storage: storage}, nil
	case string:
		st, ok := fieldType.(qitype.StringType)
		if !ok {
			return qitype.GenericValue{}, fmt.Errorf("expected a String type for field %s", fd.GetName())
		}
		storage, err := st.InitializeStorage(nil)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		st.SetString(storage, v)
		return qitype.GenericValue{Type: fieldType, Storage: storage}, nil
	case []byte:
		rt, ok := fieldType.(qitype.RawType)
		if !ok {
			return qitype.GenericValue{}, fmt.Errorf("expected a Raw type for field %s", fd.GetName())
		}
		storage, err := rt.InitializeStorage(nil)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		rt.SetBytes(storage, v)
		return qitype.GenericValue{Type: fieldType, Storage: storage}, nil
	case *dynamic.Message:
		return fromDynamicMessage(reg, fieldType, v)
	}
	return qitype.GenericValue{}, fmt.Errorf("gateway: unsupported proto value %T for field %s", val, fd.GetName())
}

func newInt(fieldType qitype.Type, n int64) (qitype.GenericValue, error) {
	it, ok := fieldType.(qitype.IntType)
	if !ok {
		return qitype.GenericValue{}, fmt.Errorf("expected an Int type, got kind %v", fieldType.Kind())
	}
	storage, err := it.InitializeStorage(nil)
	if err != nil {
		return qitype.GenericValue{}, err
	}
	it.SetInt(storage, n)
	return qitype.GenericValue{Type: fieldType, Storage: storage}, nil
}

func newFloat(fieldType qitype.Type, f float64) (qitype.GenericValue, error) {
	ft, ok := fieldType.(qitype.FloatType)
	if !ok {
		return qitype.GenericValue{}, fmt.Errorf("expected a Float type, got kind %v", fieldType.Kind())
	}
	storage, err := ft.InitializeStorage(nil)
	if err != nil {
		return qitype.GenericValue{}, err
	}
	ft.SetFloat(storage, f)
	return qitype.GenericValue{Type: fieldType, Storage: storage}, nil
}
