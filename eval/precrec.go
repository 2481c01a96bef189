package eval

import (
	"fmt"
	"math"
)

type precisionMeasure struct{}
type recallMeasure struct{}
type numRef struct{}
type numPred struct{}
type numValid struct{}

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Precision is the number of valid labels over the number of predicted labels.
	Precision = precisionMeasure{}
	// Recall is the number of valid labels over the number of reference labels.
	Recall = recallMeasure{}
	// NumRef is the number of reference labels.
	NumRef = numRef{}
	// NumPred is the number of predicted labels.
	NumPred = numPred{}
	// NumValid is the number of predicted labels found in the reference.
	NumValid = numValid{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
	// F2Measure is f-measure with beta=2.
	F2Measure = FMeasure{beta: 2}
)

func (precisionMeasure) Name() string {
	return "Precision"
}

func (precisionMeasure) Score(c Counts) Score {
	if c.Predicted == 0 {
		return NA
	}
	return Defined(float64(c.Valid) / float64(c.Predicted))
}

func (recallMeasure) Name() string {
	return "Recall"
}

func (recallMeasure) Score(c Counts) Score {
	if c.Reference == 0 {
		return NA
	}
	return Defined(float64(c.Valid) / float64(c.Reference))
}

func (numRef) Name() string {
	return "NumRef"
}

func (numRef) Score(c Counts) Score {
	return Defined(float64(c.Reference))
}

func (numPred) Name() string {
	return "NumPred"
}

func (numPred) Score(c Counts) Score {
	return Defined(float64(c.Predicted))
}

func (numValid) Name() string {
	return "NumValid"
}

func (numValid) Score(c Counts) Score {
	return Defined(float64(c.Valid))
}

// Score uses the beta parameter to compute f-measure. It is undefined when either precision or recall is, and when
// both are zero.
func (f FMeasure) Score(c Counts) Score {
	return f.Combine(Precision.Score(c), Recall.Score(c))
}

// Combine computes f-measure from precision and recall.
func (f FMeasure) Combine(precision, recall Score) Score {
	if !precision.Defined || !recall.Defined {
		return NA
	}
	p, r := precision.Value, recall.Value
	betaSquared := math.Pow(f.beta, 2)
	denominator := (betaSquared * p) + r
	if denominator == 0 {
		return NA
	}
	return Defined(((1 + betaSquared) * (p * r)) / denominator)
}

// Name calculates the name of the f-measure with beta parameter.
func (f FMeasure) Name() string {
	return fmt.Sprintf("F%vMeasure", f.beta)
}
