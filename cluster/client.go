package cluster

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// workerClient is how a coordinator talks to a Worker, wherever it is
type workerClient interface {
	Address() string
	Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error)
	RunStage(ctx context.Context, req *RunStageRequest) (*RunStageResponse, error)
	Reduce(ctx context.Context, req *ReduceRequest) (*ReduceResponse, error)
	Close() error
}

// inProcessClient calls a Worker in the same process directly
type inProcessClient struct {
	w *Worker
}

func (c *inProcessClient) Address() string {
	return "in-process/" + c.w.ID()
}

func (c *inProcessClient) Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error) {
	return c.w.Describe(ctx, req)
}

func (c *inProcessClient) RunStage(ctx context.Context, req *RunStageRequest) (*RunStageResponse, error) {
	return c.w.RunStage(ctx, req)
}

func (c *inProcessClient) Reduce(ctx context.Context, req *ReduceRequest) (*ReduceResponse, error) {
	return c.w.Reduce(ctx, req)
}

func (c *inProcessClient) Close() error {
	return nil
}

// remoteClient calls a Worker over gRPC
type remoteClient struct {
	addr string
	conn *grpc.ClientConn
}

// DialWorker connects to a remote Worker. The connection is established lazily.
func DialWorker(addr string, opts *Options) (*grpc.ClientConn, error) {
	callOpts := []grpc.CallOption{
		grpc.CallContentSubtype(codecName),
		grpc.MaxCallRecvMsgSize(opts.MaxMessageBytes),
		grpc.MaxCallSendMsgSize(opts.MaxMessageBytes),
	}
	if len(opts.Compression) > 0 {
		callOpts = append(callOpts, grpc.UseCompressor(opts.Compression))
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(callOpts...),
	}
	return grpc.Dial(addr, append(dialOpts, opts.DialOptions...)...)
}

func (c *remoteClient) Address() string {
	return c.addr
}

func (c *remoteClient) Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error) {
	res := new(DescribeResponse)
	if err := c.conn.Invoke(ctx, describeMethod, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *remoteClient) RunStage(ctx context.Context, req *RunStageRequest) (*RunStageResponse, error) {
	res := new(RunStageResponse)
	if err := c.conn.Invoke(ctx, runStageMethod, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *remoteClient) Reduce(ctx context.Context, req *ReduceRequest) (*ReduceResponse, error) {
	res := new(ReduceResponse)
	if err := c.conn.Invoke(ctx, reduceMethod, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *remoteClient) Close() error {
	return c.conn.Close()
}
