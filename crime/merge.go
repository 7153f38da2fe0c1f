package crime

import (
	"strconv"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
)

// Merge combines two payloads which share a group key. The count, which is the final
// field of each payload, is summed. Every other field is copied from the payload with
// the greater severity. When severities are equal, the payload whose fields (excluding
// the count) sort first lexicographically wins, so the result does not depend on the
// order in which a backend merges payloads. Fields are compared bytewise as strings,
// so "10" sorts before "9".
func (j *Job) Merge(lrec crimeflow.Record, rrec crimeflow.Record) (crimeflow.Record, error) {
	lcount, err := count(lrec)
	if err != nil {
		return nil, err
	}
	rcount, err := count(rrec)
	if err != nil {
		return nil, err
	}
	lsev, err := lrec.Int(j.layout.Severity)
	if err != nil {
		return nil, err
	}
	rsev, err := rrec.Int(j.layout.Severity)
	if err != nil {
		return nil, err
	}
	winner := lrec
	if rsev > lsev || (rsev == lsev && precedes(rrec, lrec)) {
		winner = rrec
	}
	out := winner.Clone()
	out[len(out)-1] = strconv.FormatInt(lcount+rcount, 10)
	return out, nil
}

func count(rec crimeflow.Record) (int64, error) {
	if len(rec) == 0 {
		return 0, errors.SchemaError{Field: 0, Width: 0, Reason: "payload has no count"}
	}
	return rec.Int(len(rec) - 1)
}

// precedes reports whether a sorts strictly before b, ignoring each payload's count
func precedes(a, b crimeflow.Record) bool {
	a, b = a[:len(a)-1], b[:len(b)-1]
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
