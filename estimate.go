package crimeflow

import (
	"math"

	"github.com/go-sif/crimeflow/errors"
)

// Cardinality is a probabilistic interval estimate of a number of Records:
// the true count lies within [Low, High] with probability Confidence
type Cardinality struct {
	Low        float64
	High       float64
	Confidence float64
}

// ExactCardinality returns a Cardinality which is known with certainty
func ExactCardinality(n int64) Cardinality {
	return Cardinality{Low: float64(n), High: float64(n), Confidence: 1}
}

// Expected returns the midpoint of the estimated interval
func (c Cardinality) Expected() float64 {
	return c.Low + (c.High-c.Low)/2
}

// Validate returns a MalformedHintError if this Cardinality is not a valid interval
func (c Cardinality) Validate() error {
	if c.Low < 0 || c.High < c.Low || math.IsNaN(c.Low) || math.IsNaN(c.High) {
		return errors.MalformedHintError{Hint: "cardinality", Reason: "interval must satisfy 0 <= low <= high"}
	}
	return validateConfidence("cardinality", c.Confidence)
}

// A CardinalityEstimator predicts the output Cardinality of an operation given its input Cardinality.
// Estimates are advisory: they may influence plan and backend choice, never results.
// The set of estimators is closed: Selectivity, FuncEstimator and ConstantEstimator.
type CardinalityEstimator interface {
	Estimate(in Cardinality) Cardinality
	Validate() error
	isCardinalityEstimator()
}

// Estimate applies est to in, treating a nil estimator as a 1:1 mapping
func Estimate(est CardinalityEstimator, in Cardinality) Cardinality {
	if est == nil {
		return in
	}
	return est.Estimate(in)
}

// Selectivity estimates output size as a ratio interval of input size
type Selectivity struct {
	Low        float64
	High       float64
	Confidence float64
}

func (Selectivity) isCardinalityEstimator() {}

// Estimate scales the input interval by the selectivity interval
func (s Selectivity) Estimate(in Cardinality) Cardinality {
	return Cardinality{
		Low:        in.Low * s.Low,
		High:       in.High * s.High,
		Confidence: in.Confidence * s.Confidence,
	}
}

// Validate returns a MalformedHintError if the ratios or confidence are out of range
func (s Selectivity) Validate() error {
	if s.Low < 0 || s.High < s.Low || math.IsNaN(s.Low) || math.IsNaN(s.High) {
		return errors.MalformedHintError{Hint: "selectivity", Reason: "ratios must satisfy 0 <= low <= high"}
	}
	return validateConfidence("selectivity", s.Confidence)
}

// FuncEstimator maps an observed input row count to a predicted output row count
// using Fn, with the given Certainty
type FuncEstimator struct {
	Certainty float64
	Fn        func(in int64) int64
}

func (FuncEstimator) isCardinalityEstimator() {}

// Estimate applies Fn to both ends of the input interval
func (f FuncEstimator) Estimate(in Cardinality) Cardinality {
	low := float64(f.Fn(int64(math.Round(in.Low))))
	high := float64(f.Fn(int64(math.Round(in.High))))
	if high < low {
		low, high = high, low
	}
	return Cardinality{Low: math.Max(low, 0), High: math.Max(high, 0), Confidence: in.Confidence * f.Certainty}
}

// Validate returns a MalformedHintError if Fn is missing or Certainty is out of range
func (f FuncEstimator) Validate() error {
	if f.Fn == nil {
		return errors.MalformedHintError{Hint: "estimator", Reason: "missing estimation function"}
	}
	return validateConfidence("estimator", f.Certainty)
}

// ConstantEstimator predicts the same output Cardinality regardless of input
type ConstantEstimator struct {
	Output Cardinality
}

func (ConstantEstimator) isCardinalityEstimator() {}

// Estimate returns the constant output Cardinality
func (c ConstantEstimator) Estimate(in Cardinality) Cardinality {
	return c.Output
}

// Validate returns a MalformedHintError if the constant is not a valid interval
func (c ConstantEstimator) Validate() error {
	return c.Output.Validate()
}

func validateConfidence(hint string, confidence float64) error {
	if confidence < 0 || confidence > 1 || math.IsNaN(confidence) {
		return errors.MalformedHintError{Hint: hint, Reason: "confidence must be within [0, 1]"}
	}
	return nil
}
