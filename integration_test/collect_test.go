package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/datasource/memory"
	"github.com/go-sif/crimeflow/datasource/parser/lines"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	"github.com/go-sif/crimeflow/pipeline"
	ctesting "github.com/go-sif/crimeflow/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// the ants package starts a default pool of its own when it is initialised
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).purgeStaleWorkers"),
	goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*Pool).ticktock"),
}

// createTestDataFrame produces numRows lines of the form "i,abc"
func createTestDataFrame(t *testing.T, numRows int) crimeflow.DataFrame {
	data := make([]string, numRows)
	for i := 0; i < len(data); i++ {
		data[i] = fmt.Sprintf("%d,abc", i)
	}
	parser := lines.CreateParser(&lines.ParserConf{
		PartitionSize: 5,
	})
	return memory.CreateDataFrameFromLines(data, parser)
}

func split(rec crimeflow.Record) (crimeflow.Record, error) {
	line, err := rec.Field(0)
	if err != nil {
		return nil, err
	}
	return crimeflow.Record(strings.Split(line, ",")), nil
}

func TestCollect(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	frame, err := createTestDataFrame(t, 10).To(
		ops.Map(split),
		ops.Map(func(rec crimeflow.Record) (crimeflow.Record, error) {
			return crimeflow.Record{rec[0], strings.ToUpper(rec[1])}, nil
		}),
		util.Collect(0),
	)
	require.Nil(t, err)
	res, err := ctesting.LocalRunFrame(context.Background(), frame, &cluster.Options{}, 2)
	require.Nil(t, err)
	require.Equal(t, 10, res.Len())
	for i, row := range res.Rows {
		require.Equal(t, crimeflow.Record{fmt.Sprintf("%d", i), "ABC"}, row.Payload)
	}
}

func TestCollectLimit(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	frame, err := createTestDataFrame(t, 10).To(
		ops.Map(split),
		util.Collect(3),
	)
	require.Nil(t, err)
	res, err := ctesting.LocalRunFrame(context.Background(), frame, &cluster.Options{BatchSize: 1}, 2)
	require.Nil(t, err)
	require.Equal(t, 3, res.Len())
	report, err := pipeline.Execute(context.Background(), frame, &pipeline.Options{Backends: "local"})
	require.Nil(t, err)
	require.Equal(t, res.Rows, report.Result.Rows)
}
