package testing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	ctesting "github.com/go-sif/crimeflow/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// the ants package starts a default pool of its own when it is initialised
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).purgeStaleWorkers"),
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).ticktock"),
}

func lengthFrame(t *testing.T) crimeflow.DataFrame {
	data := []string{"a", "bb", "cc", "ddd", "e", "ff", "ggg", "hhhh"}
	frame, err := memory.CreateDataFrameFromLines(data, lines.CreateParser(&lines.ParserConf{PartitionSize: 3})).To(
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			return strings.Repeat("x", len(rec[0])), crimeflow.Record{"1"}, nil
		}),
		ops.ReduceByKey(func(l crimeflow.Record, r crimeflow.Record) (crimeflow.Record, error) {
			return crimeflow.Record{l[0] + r[0]}, nil
		}),
		util.Collect(0),
	)
	require.Nil(t, err)
	return frame
}

func TestLocalRunFrame(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	res, err := ctesting.LocalRunFrame(context.Background(), lengthFrame(t), &cluster.Options{Compression: "snappy", BatchSize: 1}, 3)
	require.Nil(t, err)
	groups := res.ToMap()
	require.Len(t, groups, 4)
	require.Len(t, groups["x"][0], 2)
	require.Len(t, groups["xx"][0], 3)
	require.Len(t, groups["xxx"][0], 2)
	require.Len(t, groups["xxxx"][0], 1)
}

func TestLocalClusterOptions(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	c, err := ctesting.StartLocalCluster(lengthFrame(t), 2)
	require.Nil(t, err)
	defer c.Stop()
	opts := c.Options(&cluster.Options{Workers: []string{"elsewhere:1643"}})
	require.Equal(t, []string{"local-worker-0", "local-worker-1"}, opts.Workers)
	require.Len(t, opts.DialOptions, 1)
	exec, err := cluster.CreateExecutor(opts)
	require.Nil(t, err)
	require.Nil(t, exec.Check(context.Background()))
}
