package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	invgrpc "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/grpc"
	pb "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/grpc/proto"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

// InventoryClient talks to a remote inventory service and satisfies the
// order service's inventory port.
type InventoryClient struct {
	log  *slog.Logger
	conn *grpc.ClientConn
	cc   pb.InventoryServiceClient
}

func NewInventoryClient(log *slog.Logger, addr string, opts ...grpc.DialOption) (*InventoryClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("inventory client %s: %w", addr, err)
	}
	return &InventoryClient{
		log:  log,
		conn: conn,
		cc:   pb.NewInventoryServiceClient(conn),
	}, nil
}

func (c *InventoryClient) Close() error {
	return c.conn.Close()
}

func (c *InventoryClient) Reserve(ctx context.Context, items []invdomain.Item) error {
	_, err := c.cc.Reserve(ctx, &pb.ItemsRequest{Items: invgrpc.ToProto(items)})
	return c.fromStatus(err)
}

func (c *InventoryClient) Restock(ctx context.Context, items []invdomain.Item) error {
	_, err := c.cc.Restock(ctx, &pb.ItemsRequest{Items: invgrpc.ToProto(items)})
	return c.fromStatus(err)
}

func (c *InventoryClient) Exchange(ctx context.Context, release, reserve []invdomain.Item) error {
	_, err := c.cc.Exchange(ctx, &pb.ExchangeRequest{
		Release: invgrpc.ToProto(release),
		Reserve: invgrpc.ToProto(reserve),
	})
	return c.fromStatus(err)
}

// fromStatus restores the domain error carried by a status so HTTP mapping
// stays the same whether inventory is local or remote.
func (c *InventoryClient) fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("inventory rpc: %w", err)
	}
	switch st.Code() {
	case codes.NotFound:
		return apperr.NotFound("%s", st.Message())
	case codes.FailedPrecondition:
		return apperr.InsufficientStock("%s", st.Message())
	case codes.InvalidArgument:
		return apperr.Validation("%s", st.Message())
	default:
		c.log.Error("inventory rpc failed", "code", st.Code().String(), "err", st.Message())
		return fmt.Errorf("inventory rpc: %w", err)
	}
}
