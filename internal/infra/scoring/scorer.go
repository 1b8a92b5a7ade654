// Package scoring computes the stored score and transport cost of discarded items.
package scoring

import (
	"math"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/service"
)

// coefficientScorer multiplies the item measures by the type coefficients.
type coefficientScorer struct{}

// NewScorer is the constructor for coefficientScorer.
func NewScorer() service.Scorer {
	return coefficientScorer{}
}

// Score returns scoreCoefficient×weight and transportCostCoefficient×volume, rounded to cents.
func (coefficientScorer) Score(disposalType entity.DisposalType, weight, volume float64) (score, transportCost float64) {
	return round2(disposalType.ScoreCoefficient * weight), round2(disposalType.TransportCostCoefficient * volume)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
