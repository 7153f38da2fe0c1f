// Package testing provides helpers for running DataFrames on a distributed backend
// whose workers are connected in-memory, without opening network ports.
package testing

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/backend"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/pipeline"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const bufferSize = 1024 * 1024

// LocalCluster is a set of gRPC Workers serving a DataFrame over in-memory listeners
type LocalCluster struct {
	workers   []*cluster.Worker
	addrs     []string
	listeners map[string]*bufconn.Listener
	wg        sync.WaitGroup
}

// StartLocalCluster starts numWorkers Workers for frame
func StartLocalCluster(frame crimeflow.DataFrame, numWorkers int) (*LocalCluster, error) {
	c := &LocalCluster{listeners: make(map[string]*bufconn.Listener)}
	for i := 0; i < numWorkers; i++ {
		w, err := cluster.CreateWorker(frame, nil)
		if err != nil {
			c.Stop()
			return nil, err
		}
		addr := fmt.Sprintf("local-worker-%d", i)
		lis := bufconn.Listen(bufferSize)
		c.workers = append(c.workers, w)
		c.addrs = append(c.addrs, addr)
		c.listeners[addr] = lis
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			w.Serve(lis)
		}()
	}
	return c, nil
}

// Addresses returns the addresses of the Workers in this LocalCluster
func (c *LocalCluster) Addresses() []string {
	return append([]string(nil), c.addrs...)
}

// Options returns a copy of opts which connects to the Workers of this LocalCluster
func (c *LocalCluster) Options(opts *cluster.Options) *cluster.Options {
	opts = cluster.CloneOptions(opts)
	opts.Workers = c.Addresses()
	opts.DialOptions = append(opts.DialOptions, grpc.WithContextDialer(c.dial))
	return opts
}

func (c *LocalCluster) dial(ctx context.Context, addr string) (net.Conn, error) {
	lis, ok := c.listeners[addr]
	if !ok {
		return nil, fmt.Errorf("no local worker at %s", addr)
	}
	return lis.DialContext(ctx)
}

// Stop stops every Worker, and waits for them to finish serving
func (c *LocalCluster) Stop() {
	for _, w := range c.workers {
		w.Stop()
	}
	c.wg.Wait()
}

// LocalRunFrame runs a DataFrame on the distributed backend, using a LocalCluster
// with a certain number of workers
func LocalRunFrame(ctx context.Context, frame crimeflow.DataFrame, opts *cluster.Options, numWorkers int) (*crimeflow.Result, error) {
	c, err := StartLocalCluster(frame, numWorkers)
	if err != nil {
		return nil, err
	}
	defer c.Stop()
	report, err := pipeline.Execute(ctx, frame, &pipeline.Options{
		Backends: string(backend.Distributed),
		Selector: &backend.Selector{Distributed: c.Options(opts)},
	})
	if err != nil {
		return nil, err
	}
	return report.Result, nil
}
