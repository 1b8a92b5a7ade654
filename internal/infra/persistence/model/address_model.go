package model

import "time"

// AddressModel is the GORM-specific struct for the 'addresses' table.
// The full tuple is unique so that resolving an address never creates a duplicate.
type AddressModel struct {
	ID             int64 `gorm:"primaryKey"`
	ProvinceID     int64 `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	DistrictID     int64 `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	NeighborhoodID int64 `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	StreetID       int64 `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	BuildingNo     int   `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	FloorNo        int   `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	DoorNo         int   `gorm:"not null;uniqueIndex:idx_addresses_tuple"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
