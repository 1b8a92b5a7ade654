package model

import "time"

// IndividualModel is the GORM-specific struct for the 'individuals' table.
// Optional contact fields are pointers so that NULLs never collide on the unique indexes.
type IndividualModel struct {
	ID         int64        `gorm:"primaryKey"`
	NationalID string       `gorm:"type:char(11);not null;uniqueIndex"`
	FirstName  string       `gorm:"type:varchar(30);not null"`
	MiddleName *string      `gorm:"type:varchar(30)"`
	LastName   string       `gorm:"type:varchar(30);not null"`
	BirthDate  time.Time    `gorm:"type:date;not null"`
	Email      *string      `gorm:"type:varchar(100);uniqueIndex"`
	Phone      *string      `gorm:"type:varchar(20);uniqueIndex"`
	Sex        string       `gorm:"type:char(1);not null"`
	AddressID  int64        `gorm:"not null;index"`
	Address    AddressModel `gorm:"foreignKey:AddressID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (IndividualModel) TableName() string {
	return "individuals"
}

// OrganizationModel is the GORM-specific struct for the 'organizations' table.
type OrganizationModel struct {
	ID           int64        `gorm:"primaryKey"`
	TaxID        string       `gorm:"type:varchar(11);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Phone        *string      `gorm:"type:varchar(20);uniqueIndex"`
	Fax          *string      `gorm:"type:varchar(12);uniqueIndex"`
	IsGovernment bool         `gorm:"not null;default:false"`
	AddressID    int64        `gorm:"not null;index"`
	Address      AddressModel `gorm:"foreignKey:AddressID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrganizationModel) TableName() string {
	return "organizations"
}
