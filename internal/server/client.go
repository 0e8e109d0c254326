package server

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls the integration service using the JSON codec.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a Client using conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) CreateEngine(ctx context.Context, in *CreateEngineRequest, opts ...grpc.CallOption) (*CreateEngineResponse, error) {
	return invoke[CreateEngineResponse](ctx, c.conn, "CreateEngine", in, opts)
}

func (c *Client) CreateModel(ctx context.Context, in *CreateModelRequest, opts ...grpc.CallOption) (*CreateModelResponse, error) {
	return invoke[CreateModelResponse](ctx, c.conn, "CreateModel", in, opts)
}

func (c *Client) Predict(ctx context.Context, in *PredictRequest, opts ...grpc.CallOption) (*PredictResponse, error) {
	return invoke[PredictResponse](ctx, c.conn, "Predict", in, opts)
}

func (c *Client) Describe(ctx context.Context, in *DescribeRequest, opts ...grpc.CallOption) (*DescribeResponse, error) {
	return invoke[DescribeResponse](ctx, c.conn, "Describe", in, opts)
}

func (c *Client) DropModel(ctx context.Context, in *DropRequest, opts ...grpc.CallOption) (*DropResponse, error) {
	return invoke[DropResponse](ctx, c.conn, "DropModel", in, opts)
}

func (c *Client) DropEngine(ctx context.Context, in *DropRequest, opts ...grpc.CallOption) (*DropResponse, error) {
	return invoke[DropResponse](ctx, c.conn, "DropEngine", in, opts)
}

func invoke[Resp any](ctx context.Context, conn grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := conn.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
