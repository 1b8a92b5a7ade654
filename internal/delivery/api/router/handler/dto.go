package handler

import (
	"strings"
	"time"

	"greenhood/internal/domain/entity"
)

// RecordResponse is one item row of a feed or listing.
type RecordResponse struct {
	ItemID        int64      `json:"itemId"`
	Type          string     `json:"type"`
	State         string     `json:"state"`
	Weight        float64    `json:"weight"`
	Volume        float64    `json:"volume"`
	Score         float64    `json:"score"`
	TransportCost float64    `json:"transportCost"`
	DiscardedAt   time.Time  `json:"discardedAt"`
	ReservedAt    *time.Time `json:"reservedAt,omitempty"`
	RecycledAt    *time.Time `json:"recycledAt,omitempty"`
	Individual    string     `json:"individual"`
	Organization  string     `json:"organization,omitempty"`
}

func toRecordResponses(records []entity.DisposalRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, RecordResponse{
			ItemID:        r.ItemID,
			Type:          r.TypeName,
			State:         strings.ToLower(string(r.State())),
			Weight:        r.Weight,
			Volume:        r.Volume,
			Score:         r.Score,
			TransportCost: r.TransportCost,
			DiscardedAt:   r.DiscardedAt,
			ReservedAt:    r.ReservedAt,
			RecycledAt:    r.RecycledAt,
			Individual:    r.IndividualName,
			Organization:  r.OrganizationName,
		})
	}

	return out
}

// RankResponse is one leaderboard position. Identifiers are not exposed to guests.
type RankResponse struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func toRankResponses(entries []entity.LeaderboardEntry) []RankResponse {
	out := make([]RankResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, RankResponse{Rank: i + 1, Name: e.Name, Score: e.Score})
	}

	return out
}

// DisposalTypeResponse describes one material.
type DisposalTypeResponse struct {
	ID                       int64   `json:"id"`
	Name                     string  `json:"name"`
	ScoreCoefficient         float64 `json:"scoreCoefficient"`
	TransportCostCoefficient float64 `json:"transportCostCoefficient"`
}

func toDisposalTypeResponses(types []entity.DisposalType) []DisposalTypeResponse {
	out := make([]DisposalTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, DisposalTypeResponse{
			ID:                       t.ID,
			Name:                     t.Name,
			ScoreCoefficient:         t.ScoreCoefficient,
			TransportCostCoefficient: t.TransportCostCoefficient,
		})
	}

	return out
}
