// Package backend describes the closed set of execution engines a crimeflow job can
// run on, and resolves textual backend specifications into Executors.
package backend

import (
	"strings"

	"github.com/go-sif/crimeflow/backend/local"
	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/errors"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// Kind identifies an execution engine
type Kind string

const (
	// Local runs every Stage within the current process
	Local Kind = local.Name
	// Distributed runs Stages across a set of cluster workers
	Distributed Kind = cluster.Name
)

// aliases maps every accepted backend token to its Kind
var aliases = map[string]Kind{
	"local":       Local,
	"java":        Local,
	"distributed": Distributed,
	"spark":       Distributed,
}

// ParseSpec parses a comma-separated list of backend names. Names are trimmed and
// matched case-insensitively, and duplicates are collapsed. An unknown name produces
// an UnsupportedBackendError.
func ParseSpec(spec string) ([]Kind, error) {
	if len(strings.TrimSpace(spec)) == 0 {
		return nil, errors.MalformedHintError{Hint: "backend specification", Reason: "no backends named"}
	}
	kinds := []Kind{}
	seen := make(map[Kind]bool)
	for _, token := range strings.Split(spec, ",") {
		name := strings.ToLower(strings.TrimSpace(token))
		if len(name) == 0 {
			return nil, errors.MalformedHintError{Hint: "backend specification", Reason: "empty backend name in " + spec}
		}
		kind, ok := aliases[name]
		if !ok {
			return nil, errors.UnsupportedBackendError{Name: strings.TrimSpace(token)}
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// A Selector constructs Executors for backend Kinds
type Selector struct {
	Local       *local.Options   // options for the local backend. May be nil.
	Distributed *cluster.Options // options for the distributed backend. May be nil.
}

// Resolve returns one Executor per Kind, in the order given
func (s *Selector) Resolve(kinds []Kind) ([]itypes.Executor, error) {
	execs := make([]itypes.Executor, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case Local:
			execs = append(execs, local.CreateExecutor(s.Local))
		case Distributed:
			exec, err := cluster.CreateExecutor(s.Distributed)
			if err != nil {
				return nil, err
			}
			execs = append(execs, exec)
		default:
			return nil, errors.UnsupportedBackendError{Name: string(kind)}
		}
	}
	return execs, nil
}
