package model

import "time"

// IndividualCredentialModel is the GORM-specific struct for the 'individual_credentials' table.
type IndividualCredentialModel struct {
	IndividualID       int64           `gorm:"primaryKey;autoIncrement:false"`
	PasswordHash       string          `gorm:"type:varchar(255);not null"`
	LastResetRequestAt *time.Time      `gorm:"index"`
	Individual         IndividualModel `gorm:"foreignKey:IndividualID;constraint:OnDelete:CASCADE"`
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (IndividualCredentialModel) TableName() string {
	return "individual_credentials"
}

// OrganizationCredentialModel is the GORM-specific struct for the 'organization_credentials' table.
type OrganizationCredentialModel struct {
	OrganizationID     int64             `gorm:"primaryKey;autoIncrement:false"`
	PasswordHash       string            `gorm:"type:varchar(255);not null"`
	LastResetRequestAt *time.Time        `gorm:"index"`
	Organization       OrganizationModel `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrganizationCredentialModel) TableName() string {
	return "organization_credentials"
}
