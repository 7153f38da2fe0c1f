package memory

import (
	"context"
	"testing"

	"github.com/go-sif/crimeflow/datasource/parser/lines"
	"github.com/go-sif/crimeflow/errors"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatasource(t *testing.T) {
	parser := lines.CreateParser(&lines.ParserConf{PartitionSize: 4})
	df := CreateDataFrame([][]byte{[]byte("a\nb\n"), []byte(""), []byte("c\n")}, parser)
	pm, err := df.GetDataSource().Analyze(context.Background())
	require.Nil(t, err)
	counts := []int{}
	for pm.HasNext() {
		ps, err := pm.Next().Load(context.Background(), parser)
		require.Nil(t, err)
		rows := 0
		for ps.HasNextPartition() {
			part, err := ps.NextPartition()
			if _, ok := err.(errors.NoMorePartitionsError); ok {
				break
			}
			require.Nil(t, err)
			rows += part.GetNumRows()
		}
		counts = append(counts, rows)
	}
	require.Equal(t, []int{2, 0, 1}, counts)
}

func TestCreateDataFrameFromLines(t *testing.T) {
	df := CreateDataFrameFromLines([]string{"x", "y"}, lines.CreateParser(nil))
	source := df.GetDataSource().(*DataSource)
	require.Len(t, source.data, 1)
	require.Equal(t, "x\ny\n", string(source.data[0]))
}
