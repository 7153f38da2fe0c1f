package backend

import (
	"testing"

	"github.com/go-sif/crimeflow/errors"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	kinds, err := ParseSpec("local")
	require.Nil(t, err)
	require.Equal(t, []Kind{Local}, kinds)

	kinds, err = ParseSpec(" Distributed , local,LOCAL ")
	require.Nil(t, err)
	require.Equal(t, []Kind{Distributed, Local}, kinds)

	kinds, err = ParseSpec("java,spark")
	require.Nil(t, err)
	require.Equal(t, []Kind{Local, Distributed}, kinds)
}

func TestParseSpecUnsupported(t *testing.T) {
	_, err := ParseSpec("local,flink")
	require.IsType(t, errors.UnsupportedBackendError{}, err)
	require.Equal(t, "flink", err.(errors.UnsupportedBackendError).Name)
}

func TestParseSpecMalformed(t *testing.T) {
	_, err := ParseSpec("")
	require.IsType(t, errors.MalformedHintError{}, err)
	_, err = ParseSpec("local,,distributed")
	require.IsType(t, errors.MalformedHintError{}, err)
}

func TestResolve(t *testing.T) {
	s := &Selector{}
	execs, err := s.Resolve([]Kind{Local, Distributed})
	require.Nil(t, err)
	require.Len(t, execs, 2)
	require.Equal(t, "local", execs[0].Name())
	require.Equal(t, "distributed", execs[1].Name())
	_, err = s.Resolve([]Kind{Kind("flink")})
	require.IsType(t, errors.UnsupportedBackendError{}, err)
}
