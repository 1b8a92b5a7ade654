package entity

import "time"

// DisposalRecord is a denormalized item row used by feeds and listings.
type DisposalRecord struct {
	ItemID           int64
	TypeName         string
	Weight           float64
	Volume           float64
	Score            float64
	TransportCost    float64
	DiscardedAt      time.Time
	ReservedAt       *time.Time
	RecycledAt       *time.Time
	Reserved         bool
	Recycled         bool
	IndividualName   string
	OrganizationName string
}

// State returns the derived lifecycle state of the record.
func (r *DisposalRecord) State() LifecycleState {
	return DeriveState(r.Reserved, r.Recycled)
}

// LeaderboardEntry is one ranked actor.
type LeaderboardEntry struct {
	Name       string
	Identifier string
	Score      float64
}

// StatsRange selects the time window of statistics.
type StatsRange int

const (
	RangeAllTime StatsRange = iota
	RangeLastYear
	RangeLastMonth
)

// Since returns the lower bound of the window, or nil for all time.
func (r StatsRange) Since(now time.Time) *time.Time {
	var since time.Time
	switch r {
	case RangeLastYear:
		since = now.AddDate(-1, 0, 0)
	case RangeLastMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}

	return &since
}

// IndividualStats aggregates the items one individual discarded.
type IndividualStats struct {
	TotalCount    int64
	TotalWeight   float64
	TotalVolume   float64
	TotalScore    float64
	RecycledCount int64
	ReservedCount int64
}

// OrganizationStats aggregates what one organization reserved and recycled.
type OrganizationStats struct {
	ReservedCount  int64
	ReservedWeight float64
	ReservedVolume float64
	RecycledCount  int64
	RecycledWeight float64
	RecycledVolume float64
	TotalScore     float64
}

// AvailableFilter narrows the available listing. Nil bounds are open.
type AvailableFilter struct {
	TypeNames   []string
	MinWeight   *float64
	MaxWeight   *float64
	MinVolume   *float64
	MaxVolume   *float64
	From        *time.Time
	To          *time.Time
	OnlyAllowed bool
}

// IndividualProfile is the profile page of an individual.
type IndividualProfile struct {
	Individual
	Age            int
	AddressText    string
	TotalWeight    float64
	TotalVolume    float64
	RecycledWeight float64
	RecycledVolume float64
	TotalScore     float64
}

// OrganizationProfile is the profile page of an organization.
type OrganizationProfile struct {
	Organization
	AddressText    string
	SupportedTypes []string
	ReservedWeight float64
	ReservedVolume float64
	RecycledWeight float64
	RecycledVolume float64
}
