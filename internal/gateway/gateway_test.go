package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/dynatype/internal/protobridge"
	"github.com/relaymesh/dynatype/internal/qitype"
	"github.com/relaymesh/dynatype/internal/signature"
)

const echoProto = `
syntax = "proto3";
package demo;

message EchoRequest {
  string text = 1;
  repeated int32 tags = 2;
}

message EchoReply {
  string text = 1;
  int32 length = 2;
}

service Echo {
  rpc Say(EchoRequest) returns (EchoReply);
}
`

func loadEchoService(t *testing.T) *desc.ServiceDescriptor {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.proto")
	require.NoError(t, os.WriteFile(path, []byte(echoProto), 0o644))
	fds, err := protobridge.LoadFile(path, []string{dir})
	require.NoError(t, err)
	require.Len(t, fds, 1)
	sd := fds[0].FindService("demo.Echo")
	require.NotNil(t, sd)
	return sd
}

func TestServiceDescSkipsUnregisteredMethodsNotButListsUnary(t *testing.T) {
	sd := loadEchoService(t)
	reg := qitype.NewRegistry()
	svc := NewService(reg, sd)

	sdesc := svc.ServiceDesc()
	require.Equal(t, "demo.Echo", sdesc.ServiceName)
	require.Len(t, sdesc.Methods, 1)
	require.Equal(t, "Say", sdesc.Methods[0].MethodName)
}

func TestRegisterRejectsUnknownMethod(t *testing.T) {
	sd := loadEchoService(t)
	reg := qitype.NewRegistry()
	svc := NewService(reg, sd)

	err := svc.Register("DoesNotExist", func(ctx context.Context, reg *qitype.Registry, req qitype.GenericValuePtr) (qitype.GenericValue, error) {
		return qitype.GenericValue{}, nil
	})
	require.Error(t, err)
}

func TestHandleUnaryRoundTripsThroughDynamicMessage(t *testing.T) {
	sd := loadEchoService(t)
	reg := qitype.NewRegistry()
	svc := NewService(reg, sd)
	method := sd.FindMethodByName("Say")
	require.NotNil(t, method)

	require.NoError(t, svc.Register("Say", func(ctx context.Context, reg *qitype.Registry, req qitype.GenericValuePtr) (qitype.GenericValue, error) {
		tt := req.Type.(qitype.TupleType)
		textSlot, err := tt.Get(req.Storage, 0)
		require.NoError(t, err)
		text := tt.MemberTypes()[0].(qitype.StringType).GetString(textSlot)

		replySig, err := protobridge.SignatureForMessage(method.GetOutputType())
		require.NoError(t, err)
		replyType, err := signature.TypeFromSignature(reg, replySig)
		require.NoError(t, err)
		rt := replyType.(qitype.TupleType)

		textMember := rt.MemberTypes()[0].(qitype.StringType)
		textStorage, err := textMember.InitializeStorage(nil)
		require.NoError(t, err)
		textMember.SetString(textStorage, text+"!")

		lenMember := rt.MemberTypes()[1].(qitype.IntType)
		lenStorage, err := lenMember.InitializeStorage(nil)
		require.NoError(t, err)
		lenMember.SetInt(lenStorage, int64(len(text)))

		storage, err := rt.InitializeStorage([]qitype.Storage{textStorage, lenStorage})
		require.NoError(t, err)
		return qitype.GenericValue{Type: rt, Storage: storage}, nil
	}))

	inMsg := dynamic.NewMessage(method.GetInputType())
	inMsg.SetFieldByName("text", "hello")

	dec := func(v interface{}) error {
		msg := v.(*dynamic.Message)
		bytes, err := inMsg.Marshal()
		if err != nil {
			return err
		}
		return msg.Unmarshal(bytes)
	}

	out, err := svc.handleUnary(context.Background(), method, dec)
	require.NoError(t, err)

	outMsg := out.(*dynamic.Message)
	require.Equal(t, "hello!", outMsg.GetFieldByName("text"))
	require.Equal(t, int32(5), outMsg.GetFieldByName("length"))
}
