package server

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/handler"
	"github.com/nupi-ai/plugin-llm-bedrock/internal/settings"
)

// ServiceName is the fully qualified name of the integration service.
const ServiceName = "bedrock.v1.IntegrationService"

// IntegrationServer is the server API of the integration service.
type IntegrationServer interface {
	CreateEngine(context.Context, *CreateEngineRequest) (*CreateEngineResponse, error)
	CreateModel(context.Context, *CreateModelRequest) (*CreateModelResponse, error)
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	Describe(context.Context, *DescribeRequest) (*DescribeResponse, error)
	DropModel(context.Context, *DropRequest) (*DropResponse, error)
	DropEngine(context.Context, *DropRequest) (*DropResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IntegrationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateEngine", IntegrationServer.CreateEngine),
		unary("CreateModel", IntegrationServer.CreateModel),
		unary("Predict", IntegrationServer.Predict),
		unary("Describe", IntegrationServer.Describe),
		unary("DropModel", IntegrationServer.DropModel),
		unary("DropEngine", IntegrationServer.DropEngine),
	},
	Streams: []grpc.StreamDesc{},
}

// Register attaches srv to a gRPC server.
func Register(r grpc.ServiceRegistrar, srv IntegrationServer) {
	r.RegisterService(&serviceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(IntegrationServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(IntegrationServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(IntegrationServer), ctx, req.(*Req))
			})
		},
	}
}

// Server exposes a handler.Handler over gRPC.
type Server struct {
	log     *slog.Logger
	handler *handler.Handler
}

// New returns a new Server instance.
func New(h *handler.Handler, logger *slog.Logger) *Server {
	if h == nil {
		panic("server: handler must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		log:     logger.With("component", "server"),
		handler: h,
	}
}

func (s *Server) CreateEngine(ctx context.Context, req *CreateEngineRequest) (*CreateEngineResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "engine name is required")
	}
	e, err := s.handler.CreateEngine(ctx, req.Name, req.Args)
	if err != nil {
		return nil, s.toStatus("create engine", err)
	}
	return &CreateEngineResponse{ID: e.ID.String(), Name: e.Name}, nil
}

func (s *Server) CreateModel(ctx context.Context, req *CreateModelRequest) (*CreateModelResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "model name is required")
	}
	m, err := s.handler.CreateModel(ctx, handler.CreateModelRequest{
		Name:   req.Name,
		Engine: req.Engine,
		Target: req.Target,
		Using:  req.Using,
	})
	if err != nil {
		return nil, s.toStatus("create model", err)
	}
	return &CreateModelResponse{
		ID:                 m.ID.String(),
		Name:               m.Name,
		HandlerModelParams: m.Config.Dump(),
	}, nil
}

func (s *Server) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	pred, err := s.handler.Predict(ctx, req.Model, req.Rows)
	if err != nil {
		return nil, s.toStatus("predict", err)
	}
	return &PredictResponse{
		Target:   pred.Target,
		Values:   pred.Values,
		Metadata: pred.Metadata,
	}, nil
}

func (s *Server) Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error) {
	values, err := s.handler.Describe(ctx, req.Model, req.Attribute)
	if err != nil {
		return nil, s.toStatus("describe", err)
	}
	return &DescribeResponse{Values: values}, nil
}

func (s *Server) DropModel(_ context.Context, req *DropRequest) (*DropResponse, error) {
	if err := s.handler.DropModel(req.Name); err != nil {
		return nil, s.toStatus("drop model", err)
	}
	return &DropResponse{}, nil
}

func (s *Server) DropEngine(_ context.Context, req *DropRequest) (*DropResponse, error) {
	if err := s.handler.DropEngine(req.Name); err != nil {
		return nil, s.toStatus("drop engine", err)
	}
	return &DropResponse{}, nil
}

func (s *Server) toStatus(op string, err error) error {
	code := statusCode(err)
	if code == codes.Internal || code == codes.Unavailable {
		s.log.Error(op+" failed", "error", err)
	} else {
		s.log.Info(op+" rejected", "code", code.String(), "error", err)
	}
	return status.Error(code, err.Error())
}

func statusCode(err error) codes.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, settings.ErrSchema),
		errors.Is(err, settings.ErrInvalidParameter),
		errors.Is(err, settings.ErrUnsupportedMode),
		errors.Is(err, settings.ErrConflictingParameters),
		errors.Is(err, settings.ErrDependentParameter),
		errors.Is(err, handler.ErrMissingUsing):
		return codes.InvalidArgument
	case errors.Is(err, settings.ErrCredential):
		return codes.Unauthenticated
	case errors.Is(err, settings.ErrInvalidModel),
		errors.Is(err, handler.ErrEngineNotFound),
		errors.Is(err, handler.ErrModelNotFound):
		return codes.NotFound
	case errors.Is(err, settings.ErrModelCapability),
		errors.Is(err, handler.ErrEngineInUse):
		return codes.FailedPrecondition
	case errors.Is(err, handler.ErrAlreadyExists):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}
