// Package cluster implements the distributed crimeflow backend. A coordinator loads
// source Partitions, ships them to workers Stage by Stage, and combines the sorted runs
// and partial reductions which come back. Workers are either in-process or remote gRPC servers.
package cluster

import (
	"fmt"
	"os"
	"time"

	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/logging"
	"google.golang.org/grpc"
)

// Name is the identifier of the distributed backend
const Name = "distributed"

// NodeTypeEnv is the environment variable which selects the role of a crimeflow process
const NodeTypeEnv = "CRIMEFLOW_NODE_TYPE"

// NodeRole describes the intended role of a Node
type NodeRole = string

const (
	// CoordinatorRole indicates that a node should coordinate work
	CoordinatorRole NodeRole = "coordinator"
	// WorkerRole indicates that a node should perform work on behalf of a coordinator
	WorkerRole NodeRole = "worker"
)

// Options are options for the distributed backend, configuring both sides of a crimeflow cluster
type Options struct {
	Workers         []string            // addresses (host:port) of remote workers. If empty, NumWorkers in-process workers are used
	NumWorkers      int                 // the number of in-process workers to use when no remote workers are listed
	Port            int                 // port for a Worker to bind to
	Host            string              // hostname for a Worker to bind to
	RPCTimeout      time.Duration       // timeout for connecting to and describing remote workers
	BatchSize       int                 // the number of Partitions shipped to a worker in one request
	MaxInFlight     int                 // the maximum number of concurrent stage requests. Defaults to twice the number of workers
	Compression     string              // wire compression for remote workers: "", "lz4", "zstd" or "snappy"
	MaxMessageBytes int                 // the largest request or response a worker or coordinator will accept
	StartupCost     float64             // fixed cost of a distributed job, in rows, used for backend selection
	RowCost         float64             // cost per row processed by the cluster, relative to the local backend
	DialOptions     []grpc.DialOption   // extra options used when connecting to remote workers
	ServerOptions   []grpc.ServerOption // extra options used when starting a Worker server
	Logger          logging.Logger      // receives coordinator lifecycle messages. Defaults to logging.Discard.
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	if opts == nil {
		return &Options{}
	}
	clone := *opts
	clone.Workers = append([]string(nil), opts.Workers...)
	clone.DialOptions = append([]grpc.DialOption(nil), opts.DialOptions...)
	clone.ServerOptions = append([]grpc.ServerOption(nil), opts.ServerOptions...)
	return &clone
}

func ensureDefaultOptionsValues(opts *Options) error {
	if _, ok := compressors[opts.Compression]; !ok && len(opts.Compression) > 0 {
		return errors.MalformedHintError{Hint: "compression", Reason: fmt.Sprintf("unknown compression %q", opts.Compression)}
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.Port == 0 {
		opts.Port = 1643
	}
	if len(opts.Host) == 0 {
		opts.Host = "0.0.0.0"
	}
	if opts.RPCTimeout == 0 {
		opts.RPCTimeout = time.Duration(5) * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 4
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 64 * 1024 * 1024
	}
	if opts.StartupCost == 0 {
		opts.StartupCost = 50000
	}
	if opts.RowCost == 0 {
		opts.RowCost = 0.25
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard
	}
	return nil
}

// numWorkers returns the number of workers a coordinator will use
func (o *Options) numWorkers() int {
	if len(o.Workers) > 0 {
		return len(o.Workers)
	}
	return o.NumWorkers
}

// maxInFlight returns the maximum number of concurrent stage requests
func (o *Options) maxInFlight() int {
	if o.MaxInFlight > 0 {
		return o.MaxInFlight
	}
	return 2 * o.numWorkers()
}

// connectionString returns the connection string for a Worker
func (o *Options) connectionString() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// RoleFromEnv derives the role of this process from the environment
func RoleFromEnv() (NodeRole, error) {
	role := os.Getenv(NodeTypeEnv)
	switch role {
	case "":
		return "", fmt.Errorf("$%s is not set - must be \"%s\" or \"%s\"", NodeTypeEnv, CoordinatorRole, WorkerRole)
	case CoordinatorRole, WorkerRole:
		return role, nil
	default:
		return "", fmt.Errorf("$%s=\"%s\" is an unknown NodeRole", NodeTypeEnv, role)
	}
}
