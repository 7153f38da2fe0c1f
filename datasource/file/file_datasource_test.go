package file

import (
	"context"
	"io"
	"testing"

	"github.com/go-sif/crimeflow/datasource/parser/lines"
	"github.com/go-sif/crimeflow/errors"
	"github.com/go-sif/crimeflow/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFileDatasource(t *testing.T) {
	fs := storage.NewLocalFS(afero.NewMemMapFs())
	w, err := fs.Create(context.Background(), "/data/crime.csv")
	require.Nil(t, err)
	_, err = io.WriteString(w, "a\nb\nc\n")
	require.Nil(t, err)
	require.Nil(t, w.Close())

	parser := lines.CreateParser(&lines.ParserConf{PartitionSize: 2})
	df := CreateDataFrame(fs, parser, "/data/crime.csv")
	source := df.GetDataSource().(*DataSource)
	require.Nil(t, source.Check(context.Background()))

	pm, err := source.Analyze(context.Background())
	require.Nil(t, err, "Analyze err should be null")
	totalRows := 0
	for pm.HasNext() {
		pl := pm.Next()
		require.Contains(t, pl.ToString(), "/data/crime.csv")
		ps, err := pl.Load(context.Background(), parser)
		require.Nil(t, err)
		for ps.HasNextPartition() {
			part, err := ps.NextPartition()
			if _, ok := err.(errors.NoMorePartitionsError); ok {
				break
			}
			require.Nil(t, err)
			totalRows += part.GetNumRows()
		}
	}
	require.False(t, pm.HasNext())
	require.Equal(t, 3, totalRows)
}

func TestFileDatasourceCheck(t *testing.T) {
	fs := storage.NewLocalFS(afero.NewMemMapFs())
	df := CreateDataFrame(fs, lines.CreateParser(nil), "/missing/a.csv", "/missing/b.csv")
	err := df.GetDataSource().(*DataSource).Check(context.Background())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "/missing/a.csv")
	require.Contains(t, err.Error(), "/missing/b.csv")

	empty := CreateDataFrame(fs, lines.CreateParser(nil))
	_, err = empty.GetDataSource().Analyze(context.Background())
	require.NotNil(t, err)
}
