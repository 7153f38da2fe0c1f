package crime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sif/crimeflow"
	"github.com/go-sif/crimeflow/errors"
)

// TallyOne, used as Layout.Tally, makes every record count once. Setting Layout.Tally
// to a field index instead appends that field, e.g. 4 appends the severity as the
// London job originally did.
const TallyOne = -1

// Layout locates the fields of a crime record
type Layout struct {
	Delimiter string // separates fields within a line. Defaults to ",".
	Category  int    // the category name, replaced by its code during normalization
	Filter    int    // records whose filter field is "0" or "1" are discarded
	Severity  int    // the integer field which decides which payload survives a merge
	SortX     int    // records are sorted by the product of SortX and SortY
	SortY     int
	Group     int // the integer field from which group keys are derived
	Tally     int // the integer field appended to each payload as its count, or TallyOne
}

// DefaultLayout matches records of the form id,borough,category,filter,severity,x,y
var DefaultLayout = Layout{
	Delimiter: ",",
	Category:  2,
	Filter:    3,
	Severity:  4,
	SortX:     5,
	SortY:     6,
	Group:     6,
	Tally:     TallyOne,
}

// Validate returns a MalformedHintError if any field index is negative
func (l Layout) Validate() error {
	if len(l.Delimiter) == 0 {
		return errors.MalformedHintError{Hint: "layout", Reason: "delimiter cannot be empty"}
	}
	fields := map[string]int{
		"category": l.Category,
		"filter":   l.Filter,
		"severity": l.Severity,
		"sort x":   l.SortX,
		"sort y":   l.SortY,
		"group":    l.Group,
	}
	for name, idx := range fields {
		if idx < 0 {
			return errors.MalformedHintError{Hint: "layout", Reason: fmt.Sprintf("%s field index %d is negative", name, idx)}
		}
	}
	if l.Tally < 0 && l.Tally != TallyOne {
		return errors.MalformedHintError{Hint: "layout", Reason: fmt.Sprintf("tally field index %d is negative", l.Tally)}
	}
	return nil
}

// GroupKey derives a group key from b as ((b - 1) / 3) + 1, using floor division
func GroupKey(b int64) int64 {
	return floorDiv(b-1, 3) + 1
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Split breaks a single-field line Record into its delimited fields
func (j *Job) Split(rec crimeflow.Record) (crimeflow.Record, error) {
	line, err := rec.Field(0)
	if err != nil {
		return nil, err
	}
	return crimeflow.Record(strings.Split(line, j.layout.Delimiter)), nil
}

// Normalize replaces the category name of a Record with its dictionary code.
// Unknown categories become UnknownCategory.
func (j *Job) Normalize(rec crimeflow.Record) (crimeflow.Record, error) {
	name, err := rec.Field(j.layout.Category)
	if err != nil {
		return nil, err
	}
	out := rec.Clone()
	out[j.layout.Category] = j.dict.Code(name)
	return out, nil
}

// Keep retains Records whose filter field is neither "0" nor "1"
func (j *Job) Keep(rec crimeflow.Record) (bool, error) {
	v, err := rec.Field(j.layout.Filter)
	if err != nil {
		return false, err
	}
	return v != "0" && v != "1", nil
}

// SortKey is the product of a Record's two sort fields
func (j *Job) SortKey(rec crimeflow.Record) (int64, error) {
	x, err := rec.Int(j.layout.SortX)
	if err != nil {
		return 0, err
	}
	y, err := rec.Int(j.layout.SortY)
	if err != nil {
		return 0, err
	}
	return x * y, nil
}

// DeriveKey computes a Record's group key, and appends its tally to form the payload
func (j *Job) DeriveKey(rec crimeflow.Record) (string, crimeflow.Record, error) {
	b, err := rec.Int(j.layout.Group)
	if err != nil {
		return "", nil, err
	}
	tally := "1"
	if j.layout.Tally != TallyOne {
		n, err := rec.Int(j.layout.Tally)
		if err != nil {
			return "", nil, err
		}
		tally = strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(GroupKey(b), 10), rec.Append(tally), nil
}
