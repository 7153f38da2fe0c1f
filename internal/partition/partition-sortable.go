package partition

import (
	"container/heap"
	"sort"

	"github.com/go-sif/crimeflow"
	"github.com/hashicorp/go-multierror"
)

// SortedRow is a row tagged with its sort key and its position in the source
// sequence. Seq packs the source Partition ordinal into the high 32 bits and the
// row's position among rows of that ordinal into the low 32 bits.
type SortedRow struct {
	SortKey int64                 `json:"s"`
	Seq     uint64                `json:"q"`
	Row     crimeflow.KeyedRecord `json:"r"`
	Keyed   bool                  `json:"x,omitempty"`
}

func (r SortedRow) less(o SortedRow) bool {
	if r.SortKey != o.SortKey {
		return r.SortKey < o.SortKey
	}
	return r.Seq < o.Seq
}

// A SortedRun is a sequence of SortedRows in ascending (SortKey, Seq) order
type SortedRun []SortedRow

func (s SortedRun) Len() int           { return len(s) }
func (s SortedRun) Less(i, j int) bool { return s[i].less(s[j]) }
func (s SortedRun) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// SortRun computes sort keys for every row in a set of Partitions, returning a
// single sorted run. Partitions sharing an ordinal must appear in emission order.
// Rows which produce errors are omitted from the result.
func SortRun(parts []crimeflow.OperablePartition, fn crimeflow.SortKeyOperation) (SortedRun, error) {
	var multierr *multierror.Error
	positions := make(map[int]uint64)
	size := 0
	for _, part := range parts {
		size += part.GetNumRows()
	}
	run := make(SortedRun, 0, size)
	for _, part := range parts {
		ordinal := part.Ordinal()
		for i := 0; i < part.GetNumRows(); i++ {
			row := part.GetRow(i)
			pos := positions[ordinal]
			positions[ordinal] = pos + 1
			key, err := fn(row.Payload)
			if err != nil {
				multierr = multierror.Append(multierr, err)
				continue
			}
			run = append(run, SortedRow{
				SortKey: key,
				Seq:     uint64(ordinal)<<32 | pos,
				Row:     row,
				Keyed:   part.IsKeyed(),
			})
		}
	}
	sort.Sort(run)
	return run, multierr.ErrorOrNil()
}

// runCursor tracks the next unconsumed row of a SortedRun during a merge
type runCursor struct {
	run SortedRun
	pos int
}

type runHeap []*runCursor

func (h runHeap) Len() int            { return len(h) }
func (h runHeap) Less(i, j int) bool  { return h[i].run[h[i].pos].less(h[j].run[h[j].pos]) }
func (h runHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *runHeap) Push(x interface{}) { *h = append(*h, x.(*runCursor)) }
func (h *runHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// MergeRuns performs a k-way merge of SortedRuns into a single SortedRun.
// Because Seq values are unique across runs, the result is identical to
// sorting all rows together.
func MergeRuns(runs ...SortedRun) SortedRun {
	size := 0
	h := make(runHeap, 0, len(runs))
	for _, run := range runs {
		size += len(run)
		if len(run) > 0 {
			h = append(h, &runCursor{run: run})
		}
	}
	heap.Init(&h)
	result := make(SortedRun, 0, size)
	for h.Len() > 0 {
		c := h[0]
		result = append(result, c.run[c.pos])
		c.pos++
		if c.pos >= len(c.run) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return result
}

// Partitions chunks this SortedRun into Partitions of at most maxRows rows each,
// numbered from ordinal 0 in sorted order
func (s SortedRun) Partitions(maxRows int) []crimeflow.OperablePartition {
	rows := make([]crimeflow.KeyedRecord, len(s))
	keyed := len(s) > 0
	for i, r := range s {
		rows[i] = r.Row
		keyed = keyed && r.Keyed
	}
	return Split(maxRows, 0, rows, keyed)
}
