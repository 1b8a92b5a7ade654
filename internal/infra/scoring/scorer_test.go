package scoring

import (
	"testing"

	"greenhood/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	paper := entity.DisposalType{Name: "Paper", TransportCostCoefficient: 1.5, ScoreCoefficient: 2.0}
	battery := entity.DisposalType{Name: "Battery", TransportCostCoefficient: 5.0, ScoreCoefficient: 8.0}

	tests := []struct {
		name          string
		disposalType  entity.DisposalType
		weight        float64
		volume        float64
		wantScore     float64
		wantTransport float64
	}{
		{"paper", paper, 10, 2, 20, 3},
		{"fractional", paper, 0.333, 0.778, 0.67, 1.17},
		{"battery", battery, 1.25, 0.1, 10, 0.5},
	}

	scorer := NewScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, transport := scorer.Score(tt.disposalType, tt.weight, tt.volume)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.InDelta(t, tt.wantTransport, transport, 1e-9)
		})
	}
}
