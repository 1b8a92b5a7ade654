package entity

import "time"

// Organization is a company or public body that reserves and recycles items.
type Organization struct {
	ID           int64
	TaxID        string
	Name         string
	Phone        string
	Fax          string
	IsGovernment bool
	AddressID    int64
	CreatedAt    time.Time
}
