package integration_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/cluster"
	ops "github.com/go-sif/crimeflow/operations/transform"
	util "github.com/go-sif/crimeflow/operations/util"
	ctesting "github.com/go-sif/crimeflow/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestShuffleErrors(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	frame, err := createTestDataFrame(t, 10).To(
		ops.Map(split),
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			v, err := rec.Int(0)
			if err != nil {
				return "", nil, err
			} else if v < 2 {
				return "", nil, fmt.Errorf("Don't key numbers smaller than 2")
			}
			// reduce all rows together
			return "all", crimeflow.Record{rec[0]}, nil
		}),
		ops.ReduceByKey(sumCounts),
		util.Collect(0),
	)
	require.Nil(t, err)
	_, err = ctesting.LocalRunFrame(context.Background(), frame, &cluster.Options{}, 2)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "Keying Error")
}

func TestReductionPanics(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)
	frame, err := createTestDataFrame(t, 10).To(
		ops.Map(split),
		ops.KeyBy(func(rec crimeflow.Record) (string, crimeflow.Record, error) {
			return "all", crimeflow.Record{rec[0]}, nil
		}),
		ops.ReduceByKey(func(lrec crimeflow.Record, rrec crimeflow.Record) (crimeflow.Record, error) {
			out, err := sumCounts(lrec, rrec)
			if err != nil {
				return nil, err
			}
			if v, _ := out.Int(0); v > 15 {
				panic(fmt.Errorf("Prevent totals larger than 15"))
			}
			return out, nil
		}),
		util.Collect(0),
	)
	require.Nil(t, err)
	_, err = ctesting.LocalRunFrame(context.Background(), frame, &cluster.Options{}, 2)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "Reduction Panic")
	require.Contains(t, err.Error(), "Prevent totals larger than 15")
}
