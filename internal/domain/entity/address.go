// Package entity contains the core business objects of the project.
package entity

import "time"

// AddressTuple identifies a dwelling. Two addresses with the same tuple are the same address.
type AddressTuple struct {
	ProvinceID     int64
	DistrictID     int64
	NeighborhoodID int64
	StreetID       int64
	BuildingNo     int
	FloorNo        int
	DoorNo         int
}

// Address is an immutable, shared location referenced by individuals and organizations.
type Address struct {
	ID int64
	AddressTuple
	CreatedAt time.Time
}

// LocalityOption is one selectable province, district, neighborhood or street.
type LocalityOption struct {
	ID   int64
	Name string
}
