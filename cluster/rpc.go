package cluster

import (
	"context"
	"io"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	serviceName       = "crimeflow.Worker"
	describeMethod    = "/crimeflow.Worker/Describe"
	runStageMethod    = "/crimeflow.Worker/RunStage"
	reduceMethod      = "/crimeflow.Worker/Reduce"
	codecName         = "crimeflow-json"
	lz4Compression    = "lz4"
	zstdCompression   = "zstd"
	snappyCompression = "snappy"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCodec encodes worker messages as JSON
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

type lz4Compressor struct{}

func (lz4Compressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Compressor) Decompress(r io.Reader) (io.Reader, error) {
	return lz4.NewReader(r), nil
}

func (lz4Compressor) Name() string {
	return lz4Compression
}

type zstdCompressor struct{}

func (zstdCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
}

func (zstdCompressor) Decompress(r io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &zstdReader{dec: dec}, nil
}

func (zstdCompressor) Name() string {
	return zstdCompression
}

// zstdReader releases its decoder once the stream is exhausted
type zstdReader struct {
	dec *zstd.Decoder
}

func (z *zstdReader) Read(p []byte) (int, error) {
	if z.dec == nil {
		return 0, io.EOF
	}
	n, err := z.dec.Read(p)
	if err != nil {
		z.dec.Close()
		z.dec = nil
	}
	return n, err
}

type snappyCompressor struct{}

func (snappyCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCompressor) Decompress(r io.Reader) (io.Reader, error) {
	return snappy.NewReader(r), nil
}

func (snappyCompressor) Name() string {
	return snappyCompression
}

var compressors = map[string]encoding.Compressor{
	lz4Compression:    lz4Compressor{},
	zstdCompression:   zstdCompressor{},
	snappyCompression: snappyCompressor{},
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
	for _, c := range compressors {
		encoding.RegisterCompressor(c)
	}
}

// workerServer is the server API for the crimeflow.Worker service
type workerServer interface {
	Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error)
	RunStage(ctx context.Context, req *RunStageRequest) (*RunStageResponse, error)
	Reduce(ctx context.Context, req *ReduceRequest) (*ReduceResponse, error)
}

func describeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DescribeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(workerServer).Describe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: describeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(workerServer).Describe(ctx, req.(*DescribeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func runStageHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RunStageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(workerServer).RunStage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: runStageMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(workerServer).RunStage(ctx, req.(*RunStageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func reduceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReduceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(workerServer).Reduce(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: reduceMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(workerServer).Reduce(ctx, req.(*ReduceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var workerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*workerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Describe", Handler: describeHandler},
		{MethodName: "RunStage", Handler: runStageHandler},
		{MethodName: "Reduce", Handler: reduceHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "crimeflow/cluster/rpc.go",
}

// RegisterWorkerServer registers a Worker's RPC handlers with a gRPC server
func RegisterWorkerServer(s *grpc.Server, w *Worker) {
	s.RegisterService(&workerServiceDesc, w)
}
