package service

import "greenhood/internal/domain/entity"

// Scorer derives the immutable score and transport cost of a discarded item.
type Scorer interface {
	Score(disposalType entity.DisposalType, weight, volume float64) (score, transportCost float64)
}

// PasswordGenerator creates random passwords that satisfy the strength rule.
type PasswordGenerator interface {
	Generate() (string, error)
}
