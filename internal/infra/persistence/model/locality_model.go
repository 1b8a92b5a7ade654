package model

// ProvinceModel is the GORM-specific struct for the 'provinces' table.
type ProvinceModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName explicitly sets the table name for GORM.
func (ProvinceModel) TableName() string {
	return "provinces"
}

// DistrictModel is the GORM-specific struct for the 'districts' table.
type DistrictModel struct {
	ID         int64         `gorm:"primaryKey"`
	ProvinceID int64         `gorm:"not null;index"`
	Name       string        `gorm:"type:varchar(100);not null"`
	Province   ProvinceModel `gorm:"foreignKey:ProvinceID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (DistrictModel) TableName() string {
	return "districts"
}

// NeighborhoodModel is the GORM-specific struct for the 'neighborhoods' table.
type NeighborhoodModel struct {
	ID         int64         `gorm:"primaryKey"`
	DistrictID int64         `gorm:"not null;index"`
	Name       string        `gorm:"type:varchar(100);not null"`
	District   DistrictModel `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (NeighborhoodModel) TableName() string {
	return "neighborhoods"
}

// StreetModel is the GORM-specific struct for the 'streets' table.
type StreetModel struct {
	ID             int64             `gorm:"primaryKey"`
	NeighborhoodID int64             `gorm:"not null;index"`
	Name           string            `gorm:"type:varchar(100);not null"`
	Neighborhood   NeighborhoodModel `gorm:"foreignKey:NeighborhoodID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (StreetModel) TableName() string {
	return "streets"
}
