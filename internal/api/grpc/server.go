package grpcapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

// NewServer constructs a gRPC server exposing the report service.
func NewServer(service domain.ReportService, logger *infra.Logger) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		loggingInterceptor(logger),
		infra.GRPCUnaryInterceptor(),
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterReportServer(server, &reportServer{service: service})
	return server
}

type reportServer struct {
	service domain.ReportService
}

func (s *reportServer) Records(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	labels, err := requestLabels(req)
	if err != nil {
		return nil, err
	}
	records, err := s.service.Records(ctx, labels)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return toList(records)
}

func (s *reportServer) Aggregate(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	labels, err := requestLabels(req)
	if err != nil {
		return nil, err
	}
	rows, err := s.service.Aggregate(ctx, labels)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return toList(rows)
}

func (s *reportServer) Compare(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	labels, err := requestLabels(req)
	if err != nil {
		return nil, err
	}
	baseline := domain.DefaultBaseline(req.GetFields()["baseline"].GetStringValue(), labels)
	rows, err := s.service.Compare(ctx, baseline, labels)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return toList(rows)
}

func requestLabels(req *structpb.Struct) ([]string, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request must not be nil")
	}

	var labels []string
	switch v := req.GetFields()["labels"].GetKind().(type) {
	case *structpb.Value_StringValue:
		labels = domain.ParseList(v.StringValue)
	case *structpb.Value_ListValue:
		raw := make([]string, 0, len(v.ListValue.GetValues()))
		for _, item := range v.ListValue.GetValues() {
			raw = append(raw, item.GetStringValue())
		}
		labels = domain.Normalize(raw)
	}

	if len(labels) == 0 {
		return nil, status.Error(codes.InvalidArgument, "labels are required")
	}
	return labels, nil
}

// toList converts rows to their JSON shape so both transports expose the same fields.
func toList(rows any) (*structpb.ListValue, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return list, nil
}

func translateServiceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoLabels):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func loggingInterceptor(logger *infra.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = infra.NewCorrelationID(ctx)
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		method := strings.TrimPrefix(info.FullMethod, "/")
		if err != nil {
			logger.Warnf(ctx, "gRPC %s failed in %s: %v", method, duration, err)
		} else {
			logger.Printf(ctx, "gRPC %s completed in %s", method, duration)
		}
		return resp, err
	}
}
