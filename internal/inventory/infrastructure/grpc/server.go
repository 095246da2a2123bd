package grpc

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	pb "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/grpc/proto"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

// InventoryService is the subset of the inventory application exposed over gRPC.
type InventoryService interface {
	CheckAvailability(ctx context.Context, items []domain.Item) error
	Reserve(ctx context.Context, items []domain.Item) error
	Restock(ctx context.Context, items []domain.Item) error
	Exchange(ctx context.Context, release, reserve []domain.Item) error
}

type Server struct {
	log     *slog.Logger
	service InventoryService
}

func NewServer(log *slog.Logger, service InventoryService) *Server {
	return &Server{log: log, service: service}
}

// CheckStock answers Available=false for shortages and unknown products;
// malformed requests are rejected with InvalidArgument.
func (s *Server) CheckStock(ctx context.Context, req *pb.ItemsRequest) (*pb.CheckStockResponse, error) {
	err := s.service.CheckAvailability(ctx, FromProto(req.Items))
	switch {
	case err == nil:
		return &pb.CheckStockResponse{Available: true}, nil
	case apperr.Is(err, apperr.KindInsufficientStock), apperr.Is(err, apperr.KindNotFound):
		return &pb.CheckStockResponse{Available: false}, nil
	default:
		return nil, s.toStatus(err)
	}
}

func (s *Server) Reserve(ctx context.Context, req *pb.ItemsRequest) (*pb.Ack, error) {
	if err := s.service.Reserve(ctx, FromProto(req.Items)); err != nil {
		return nil, s.toStatus(err)
	}
	return &pb.Ack{Success: true}, nil
}

func (s *Server) Restock(ctx context.Context, req *pb.ItemsRequest) (*pb.Ack, error) {
	if err := s.service.Restock(ctx, FromProto(req.Items)); err != nil {
		return nil, s.toStatus(err)
	}
	return &pb.Ack{Success: true}, nil
}

func (s *Server) Exchange(ctx context.Context, req *pb.ExchangeRequest) (*pb.Ack, error) {
	if err := s.service.Exchange(ctx, FromProto(req.Release), FromProto(req.Reserve)); err != nil {
		return nil, s.toStatus(err)
	}
	return &pb.Ack{Success: true}, nil
}

func (s *Server) toStatus(err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		s.log.Error("inventory rpc failed", "err", err)
		return status.Error(codes.Internal, "An unexpected error occurred")
	}
	switch kind {
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case apperr.KindInsufficientStock:
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}

// FromProto converts wire items. A nil list stays nil so validation can tell
// "missing" from "empty".
func FromProto(items []*pb.Item) []domain.Item {
	if items == nil {
		return nil
	}
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, domain.Item{ProductID: it.ProductID, Quantity: int(it.Quantity)})
	}
	return out
}

func ToProto(items []domain.Item) []*pb.Item {
	if items == nil {
		return nil
	}
	out := make([]*pb.Item, 0, len(items))
	for _, it := range items {
		out = append(out, &pb.Item{ProductID: it.ProductID, Quantity: int64(it.Quantity)})
	}
	return out
}

// NewGRPCServer builds a grpc.Server with the inventory service registered.
func NewGRPCServer(srv *Server) *grpc.Server {
	gs := grpc.NewServer(pb.ServerOption())
	pb.RegisterInventoryServiceServer(gs, srv)
	return gs
}

// Run serves on addr in the background.
func Run(addr string, srv *Server) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	gs := NewGRPCServer(srv)
	go func() {
		if err := gs.Serve(lis); err != nil {
			srv.log.Error("grpc serve stopped", "err", err)
		}
	}()
	return gs, nil
}
