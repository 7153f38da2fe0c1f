package dataframe

import (
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sif/crimeflow"
	itypes "github.com/go-sif/crimeflow/internal/types"
)

// planImpl is an optimized execution Plan for a DataFrame
type planImpl struct {
	stages []*stageImpl
	parser crimeflow.DataSourceParser
	source crimeflow.DataSource
}

// Size returns the number of stages in this Plan
func (p *planImpl) Size() int {
	return len(p.stages)
}

// GetStage returns a particular Stage in this Plan
func (p *planImpl) GetStage(idx int) itypes.Stage {
	return p.stages[idx]
}

// Parser returns this Plan's DataSourceParser
func (p *planImpl) Parser() crimeflow.DataSourceParser {
	return p.parser
}

// Source returns this Plan's DataSource
func (p *planImpl) Source() crimeflow.DataSource {
	return p.source
}

// Operations returns a description of every operation in this Plan, in execution order
func (p *planImpl) Operations() []itypes.OperationInfo {
	ops := []itypes.OperationInfo{}
	for _, s := range p.stages {
		ops = append(ops, s.Operations()...)
	}
	return ops
}

// Fingerprint hashes the stage structure and operation names of this Plan
func (p *planImpl) Fingerprint() uint64 {
	h := xxhash.New()
	for _, op := range p.Operations() {
		h.WriteString(strconv.Itoa(op.Stage))
		h.WriteString("/")
		h.WriteString(string(op.TaskType))
		h.WriteString("/")
		h.WriteString(op.Name)
		h.WriteString(";")
	}
	return h.Sum64()
}
