package cluster

import (
	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/internal/partition"
)

// wirePartition is the serialized form of a Partition
type wirePartition struct {
	Ordinal int                     `json:"o"`
	MaxRows int                     `json:"m"`
	Keyed   bool                    `json:"k,omitempty"`
	Rows    []crimeflow.KeyedRecord `json:"r"`
}

func toWire(part crimeflow.Partition) wirePartition {
	return wirePartition{
		Ordinal: part.Ordinal(),
		MaxRows: part.GetMaxRows(),
		Keyed:   part.IsKeyed(),
		Rows:    partition.Rows(part),
	}
}

func toWireAll(parts []crimeflow.OperablePartition) []wirePartition {
	out := make([]wirePartition, len(parts))
	for i, p := range parts {
		out[i] = toWire(p)
	}
	return out
}

func (w wirePartition) partition() crimeflow.OperablePartition {
	return partition.FromRows(w.MaxRows, w.Ordinal, w.Rows, w.Keyed)
}

func fromWireAll(parts []wirePartition) []crimeflow.OperablePartition {
	out := make([]crimeflow.OperablePartition, len(parts))
	for i, p := range parts {
		out[i] = p.partition()
	}
	return out
}

// DescribeRequest asks a worker to identify itself
type DescribeRequest struct{}

// DescribeResponse identifies a worker and the Plan it holds
type DescribeResponse struct {
	ID          string `json:"id"`
	Fingerprint uint64 `json:"fingerprint"`
	NumStages   int    `json:"stages"`
}

// RunStageRequest asks a worker to run the tasks of one Stage against a batch of Partitions
type RunStageRequest struct {
	Stage       int             `json:"stage"`
	Fingerprint uint64          `json:"fingerprint"`
	Partitions  []wirePartition `json:"partitions"`
}

// RunStageResponse carries the output of a Stage for one batch. Exactly one of
// Partitions, Run or Combined is populated, depending on how the Stage ends.
type RunStageResponse struct {
	RowsOut    []int                   `json:"rowsOut"`              // the number of rows produced from each input Partition
	Partitions []wirePartition         `json:"partitions,omitempty"` // output Partitions, when the Stage has no boundary
	Run        partition.SortedRun     `json:"run,omitempty"`        // a sorted run, when the Stage ends in a sort
	Combined   []crimeflow.KeyedRecord `json:"combined,omitempty"`   // partially reduced rows, when the Stage ends in a shuffle
}

// ReduceRequest asks a worker to fold the rows of one shuffle bucket
type ReduceRequest struct {
	Stage       int                     `json:"stage"`
	Fingerprint uint64                  `json:"fingerprint"`
	Rows        []crimeflow.KeyedRecord `json:"rows"`
}

// ReduceResponse carries one row per distinct key in a shuffle bucket
type ReduceResponse struct {
	Rows []crimeflow.KeyedRecord `json:"rows"`
}
