package gateway

import (
	"context"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/relaymesh/dynatype/internal/protobridge"
	"github.com/relaymesh/dynatype/internal/qilog"
	"github.com/relaymesh/dynatype/internal/qitype"
	"github.com/relaymesh/dynatype/internal/signature"
)

var serviceLog = qilog.NewCategory("qitype.gateway.service")

// Handler is one RPC method's implementation: given the request value
// (whose shape matches the method's input message), it returns a
// response value shaped like the output message.
type Handler func(ctx context.Context, reg *qitype.Registry, req qitype.GenericValuePtr) (qitype.GenericValue, error)

// Service binds a protobuf service descriptor to a set of Handlers,
// one per method, and builds the grpc.ServiceDesc a grpc.Server needs
// to dispatch onto them without any generated stub code. Grounded on
// GrpcServerObject/builtinGrpcRegister/FunxyGrpcHandler.
type Service struct {
	reg      *qitype.Registry
	sd       *desc.ServiceDescriptor
	handlers map[string]Handler
}

// NewService binds to a loaded service descriptor. reg is used to
// materialize each method's request/response qitype.Type on demand.
func NewService(reg *qitype.Registry, sd *desc.ServiceDescriptor) *Service {
	return &Service{reg: reg, sd: sd, handlers: make(map[string]Handler)}
}

// Register attaches a Handler for one RPC method. Client- and
// server-streaming methods are not supported; ServiceDesc skips them.
func (s *Service) Register(methodName string, h Handler) error {
	if s.sd.FindMethodByName(methodName) == nil {
		return fmt.Errorf("gateway: service %s has no method %s", s.sd.GetFullyQualifiedName(), methodName)
	}
	s.handlers[methodName] = h
	return nil
}

// ServiceDesc builds the grpc.ServiceDesc for registration on a
// grpc.Server, mirroring builtinGrpcRegister's runtime construction.
// Client- or server-streaming methods are omitted, matching the
// teacher's "// TODO: Streaming support" skip.
func (s *Service) ServiceDesc() *grpc.ServiceDesc {
	out := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    s.sd.GetFile().GetName(),
	}
	for _, md := range s.sd.GetMethods() {
		if md.IsClientStreaming() || md.IsServerStreaming() {
			continue
		}
		method := md
		out.Methods = append(out.Methods, grpc.MethodDesc{
			MethodName: method.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				svc := srv.(*Service)
				return svc.handleUnary(ctx, method, dec)
			},
		})
	}
	return out
}

func (s *Service) handleUnary(ctx context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	h, ok := s.handlers[md.GetName()]
	if !ok {
		return nil, fmt.Errorf("gateway: method %s not implemented", md.GetName())
	}

	inMsg := dynamic.NewMessage(md.GetInputType())
	if err := dec(inMsg); err != nil {
		return nil, err
	}

	reqSig, err := protobridge.SignatureForMessage(md.GetInputType())
	if err != nil {
		return nil, err
	}
	reqType, err := signature.TypeFromSignature(s.reg, reqSig)
	if err != nil {
		return nil, err
	}
	reqVal, err := fromDynamicMessage(s.reg, reqType, inMsg)
	if err != nil {
		return nil, err
	}
	defer reqVal.Close()

	respVal, err := h(ctx, s.reg, reqVal.Ptr())
	if err != nil {
		serviceLog.Error("handler failed", "method", md.GetName(), "err", err)
		return nil, err
	}
	defer respVal.Close()

	outMsg := dynamic.NewMessage(md.GetOutputType())
	if err := toDynamicMessage(respVal.Ptr(), outMsg); err != nil {
		return nil, err
	}
	return outMsg, nil
}

// Serve starts a gRPC server on addr exposing every Service passed in,
// blocking until ctx is cancelled, at which point it gracefully stops.
// Mirrors builtinGrpcServer/builtinGrpcServeAsync/builtinGrpcStop
// collapsed into one call.
func Serve(ctx context.Context, addr string, services ...*Service) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gateway: listening on %s: %w", addr, err)
	}

	server := grpc.NewServer()
	for _, svc := range services {
		server.RegisterService(svc.ServiceDesc(), svc)
	}

	errc := make(chan error, 1)
	go func() { errc <- server.Serve(lis) }()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		return nil
	case err := <-errc:
		return err
	}
}
