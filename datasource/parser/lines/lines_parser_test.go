package lines

import (
	"strings"
	"testing"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it crimeflow.PartitionIterator) []crimeflow.OperablePartition {
	parts := []crimeflow.OperablePartition{}
	for it.HasNextPartition() {
		part, err := it.NextPartition()
		if _, ok := err.(errors.NoMorePartitionsError); ok {
			break
		}
		require.Nil(t, err)
		parts = append(parts, part)
	}
	return parts
}

func TestLinesParser(t *testing.T) {
	parser := CreateParser(&ParserConf{PartitionSize: 2, HeaderLines: 1, Comment: "#"})
	input := "id,borough,category\r\na,b,c\r\n\n   \n# comment\nd,e,f\ng,h,i"
	ended := false
	it, err := parser.Parse(strings.NewReader(input), func() { ended = true })
	require.Nil(t, err)
	parts := drain(t, it)
	require.True(t, ended)
	require.Len(t, parts, 2)
	require.Equal(t, 0, parts[0].Ordinal())
	require.Equal(t, 1, parts[1].Ordinal())
	require.Equal(t, 2, parts[0].GetNumRows())
	require.Equal(t, crimeflow.Record{"a,b,c"}, parts[0].GetRow(0).Payload)
	require.Equal(t, crimeflow.Record{"d,e,f"}, parts[0].GetRow(1).Payload)
	require.Equal(t, crimeflow.Record{"g,h,i"}, parts[1].GetRow(0).Payload)
}

func TestLinesParserEmptyInput(t *testing.T) {
	parser := CreateParser(nil)
	require.Equal(t, 128, parser.PartitionSize())
	ended := false
	it, err := parser.Parse(strings.NewReader(""), func() { ended = true })
	require.Nil(t, err)
	require.Empty(t, drain(t, it))
	require.True(t, ended)
	_, err = it.NextPartition()
	require.IsType(t, errors.NoMorePartitionsError{}, err)
}

func TestLinesParserExactMultiple(t *testing.T) {
	parser := CreateParser(&ParserConf{PartitionSize: 2})
	it, err := parser.Parse(strings.NewReader("1\n2\n3\n4\n"), nil)
	require.Nil(t, err)
	parts := drain(t, it)
	require.Len(t, parts, 2)
	require.Equal(t, crimeflow.Record{"4"}, parts[1].GetRow(1).Payload)
}
