package model

import "time"

// DisposalTypeModel is the GORM-specific struct for the 'disposal_types' table.
type DisposalTypeModel struct {
	ID                       int64   `gorm:"primaryKey"`
	Name                     string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	TransportCostCoefficient float64 `gorm:"not null"`
	ScoreCoefficient         float64 `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (DisposalTypeModel) TableName() string {
	return "disposal_types"
}

// OrganizationDisposalTypeModel links an organization to a type it accepts.
type OrganizationDisposalTypeModel struct {
	OrganizationID int64             `gorm:"primaryKey;autoIncrement:false"`
	DisposalTypeID int64             `gorm:"primaryKey;autoIncrement:false"`
	Organization   OrganizationModel `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	DisposalType   DisposalTypeModel `gorm:"foreignKey:DisposalTypeID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrganizationDisposalTypeModel) TableName() string {
	return "organization_disposal_types"
}

// DisposalItemModel is the GORM-specific struct for the 'disposal_items' table.
// Lifecycle state is not stored: it follows from reservation_items and Recycled.
type DisposalItemModel struct {
	ID             int64             `gorm:"primaryKey"`
	DisposalTypeID int64             `gorm:"not null;index"`
	IndividualID   int64             `gorm:"not null;index"`
	Weight         float64           `gorm:"not null"`
	Volume         float64           `gorm:"not null"`
	Score          float64           `gorm:"not null"`
	TransportCost  float64           `gorm:"not null"`
	DiscardedAt    time.Time         `gorm:"not null;index"`
	Recycled       bool              `gorm:"not null;default:false"`
	DisposalType   DisposalTypeModel `gorm:"foreignKey:DisposalTypeID"`
	Individual     IndividualModel   `gorm:"foreignKey:IndividualID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (DisposalItemModel) TableName() string {
	return "disposal_items"
}

// ReservationModel is the GORM-specific struct for the 'reservations' table.
// CompletedAt is stamped by a storage trigger when the linked item is recycled.
type ReservationModel struct {
	ID             int64             `gorm:"primaryKey"`
	OrganizationID int64             `gorm:"not null;index"`
	CreatedAt      time.Time         `gorm:"not null"`
	CompletedAt    *time.Time
	Organization   OrganizationModel `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ReservationModel) TableName() string {
	return "reservations"
}

// ReservationItemModel joins a reservation to its single item.
// The unique item index is what serializes concurrent reservations of one item.
type ReservationItemModel struct {
	ReservationID int64             `gorm:"primaryKey;autoIncrement:false"`
	ItemID        int64             `gorm:"not null;uniqueIndex"`
	Reservation   ReservationModel  `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	Item          DisposalItemModel `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ReservationItemModel) TableName() string {
	return "reservation_items"
}
