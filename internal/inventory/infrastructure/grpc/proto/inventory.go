// Package proto holds the wire contract of inventory.v1.InventoryService.
// Messages travel as JSON through a forced codec, so the descriptor below is
// maintained by hand rather than generated.
package proto

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
)

const ServiceName = "inventory.v1.InventoryService"

const (
	CheckStockFullMethodName = "/" + ServiceName + "/CheckStock"
	ReserveFullMethodName    = "/" + ServiceName + "/Reserve"
	RestockFullMethodName    = "/" + ServiceName + "/Restock"
	ExchangeFullMethodName   = "/" + ServiceName + "/Exchange"
)

type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ItemsRequest struct {
	Items []*Item `json:"items"`
}

type ExchangeRequest struct {
	Release []*Item `json:"release"`
	Reserve []*Item `json:"reserve"`
}

type CheckStockResponse struct {
	Available bool `json:"available"`
}

type Ack struct {
	Success bool `json:"success"`
}

// Codec marshals messages as JSON.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type InventoryServiceServer interface {
	CheckStock(context.Context, *ItemsRequest) (*CheckStockResponse, error)
	Reserve(context.Context, *ItemsRequest) (*Ack, error)
	Restock(context.Context, *ItemsRequest) (*Ack, error)
	Exchange(context.Context, *ExchangeRequest) (*Ack, error)
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

type InventoryServiceClient interface {
	CheckStock(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*CheckStockResponse, error)
	Reserve(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*Ack, error)
	Restock(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*Ack, error)
	Exchange(ctx context.Context, in *ExchangeRequest, opts ...grpc.CallOption) (*Ack, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc: cc}
}

func (c *inventoryServiceClient) CheckStock(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*CheckStockResponse, error) {
	out := new(CheckStockResponse)
	if err := c.cc.Invoke(ctx, CheckStockFullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) Reserve(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, ReserveFullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) Restock(ctx context.Context, in *ItemsRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, RestockFullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) Exchange(ctx context.Context, in *ExchangeRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.cc.Invoke(ctx, ExchangeFullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
}

// ServerOption makes a grpc.Server speak this package's codec.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}

func checkStockHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ItemsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).CheckStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CheckStockFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).CheckStock(ctx, req.(*ItemsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func reserveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ItemsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).Reserve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReserveFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).Reserve(ctx, req.(*ItemsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func restockHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ItemsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).Restock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RestockFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).Restock(ctx, req.(*ItemsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func exchangeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExchangeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).Exchange(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExchangeFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).Exchange(ctx, req.(*ExchangeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckStock", Handler: checkStockHandler},
		{MethodName: "Reserve", Handler: reserveHandler},
		{MethodName: "Restock", Handler: restockHandler},
		{MethodName: "Exchange", Handler: exchangeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}
