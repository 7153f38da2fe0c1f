package util

import (
	"fmt"

	"github.com/go-sif/crimeflow"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp crimeflow.MapOperation) (safeMapOp crimeflow.MapOperation) {
	return func(rec crimeflow.Record) (out crimeflow.Record, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nRecord: %s\n%s", anErr, rec.String(), GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nRecord: %s\n%s", r, rec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nRecord: %s", err, rec.String())
			}
		}()
		out, err = mapOp(rec)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp crimeflow.FilterOperation) (safeFilterOp crimeflow.FilterOperation) {
	return func(rec crimeflow.Record) (keep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Filter Panic: %w\nRecord: %s\n%s", anErr, rec.String(), GetTrace())
				} else {
					err = fmt.Errorf("Filter Panic: %v\nRecord: %s\n%s", r, rec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nRecord: %s", err, rec.String())
			}
		}()
		keep, err = filterOp(rec)
		return
	}
}

// SafeFlatMapOperation wraps a FlatMapOperation such that panics are recovered and nice error messages are constructed
func SafeFlatMapOperation(flatMapOp crimeflow.FlatMapOperation) (safeFlatMapOp crimeflow.FlatMapOperation) {
	return func(rec crimeflow.Record, emit func(crimeflow.Record)) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("FlatMap Panic: %w\nRecord: %s\n%s", anErr, rec.String(), GetTrace())
				} else {
					err = fmt.Errorf("FlatMap Panic: %v\nRecord: %s\n%s", r, rec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("FlatMap Error: %w\nRecord: %s", err, rec.String())
			}
		}()
		err = flatMapOp(rec, emit)
		return
	}
}

// SafeSortKeyOperation wraps a SortKeyOperation such that panics are recovered and nice error messages are constructed
func SafeSortKeyOperation(sortKeyOp crimeflow.SortKeyOperation) (safeSortKeyOp crimeflow.SortKeyOperation) {
	return func(rec crimeflow.Record) (key int64, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Sort Panic: %w\nRecord: %s\n%s", anErr, rec.String(), GetTrace())
				} else {
					err = fmt.Errorf("Sort Panic: %v\nRecord: %s\n%s", r, rec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Sort Error: %w\nRecord: %s", err, rec.String())
			}
		}()
		key, err = sortKeyOp(rec)
		return
	}
}

// SafeKeyingOperation wraps a KeyingOperation such that panics are recovered and nice error messages are constructed
func SafeKeyingOperation(keyingOp crimeflow.KeyingOperation) (safeKeyingOp crimeflow.KeyingOperation) {
	return func(rec crimeflow.Record) (key string, payload crimeflow.Record, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Keying Panic: %w\nRecord: %s\n%s", anErr, rec.String(), GetTrace())
				} else {
					err = fmt.Errorf("Keying Panic: %v\nRecord: %s\n%s", r, rec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Keying Error: %w\nRecord: %s", err, rec.String())
			}
		}()
		key, payload, err = keyingOp(rec)
		return
	}
}

// SafeReductionOperation wraps a ReductionOperation such that panics are recovered and nice error messages are constructed
func SafeReductionOperation(reductionOp crimeflow.ReductionOperation) (safeReductionOp crimeflow.ReductionOperation) {
	return func(lrec, rrec crimeflow.Record) (out crimeflow.Record, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Reduction Panic: %w\nLRecord: %s\nRRecord: %s\n%s", anErr, lrec.String(), rrec.String(), GetTrace())
				} else {
					err = fmt.Errorf("Reduction Panic: %v\nLRecord: %s\nRRecord: %s\n%s", r, lrec.String(), rrec.String(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Reduction Error: %w\nLRecord: %s\nRRecord: %s", err, lrec.String(), rrec.String())
			}
		}()
		out, err = reductionOp(lrec, rrec)
		return
	}
}
