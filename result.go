package crimeflow

import "sort"

// Result is the materialized output of a DataFrame execution: an unordered
// collection of rows, one per distinct group key when the DataFrame ends in a reduction
type Result struct {
	Rows []KeyedRecord
}

// Len returns the number of rows in this Result
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ToMap indexes the rows of this Result by group key
func (r *Result) ToMap() map[string]Record {
	m := make(map[string]Record, r.Len())
	if r == nil {
		return m
	}
	for _, row := range r.Rows {
		m[row.Key] = row.Payload
	}
	return m
}

// Sorted returns a copy of the rows of this Result, ordered by key and then payload
func (r *Result) Sorted() []KeyedRecord {
	if r == nil {
		return nil
	}
	rows := make([]KeyedRecord, len(r.Rows))
	copy(rows, r.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Key != rows[j].Key {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].Payload.String() < rows[j].Payload.String()
	})
	return rows
}
