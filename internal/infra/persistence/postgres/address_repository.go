package postgres

import (
	"context"
	"strconv"
	"strings"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// addressRepository implements the repository.AddressRepository interface.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{
		db: db,
	}
}

// FindAddressByTuple looks up an address by its full identifying tuple.
func (repo *addressRepository) FindAddressByTuple(ctx context.Context, tuple entity.AddressTuple) (*entity.Address, error) {
	var addressM model.AddressModel

	err := repo.db.WithContext(ctx).
		Where("province_id = ? AND district_id = ? AND neighborhood_id = ? AND street_id = ?",
			tuple.ProvinceID, tuple.DistrictID, tuple.NeighborhoodID, tuple.StreetID).
		Where("building_no = ? AND floor_no = ? AND door_no = ?", tuple.BuildingNo, tuple.FloorNo, tuple.DoorNo).
		First(&addressM).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, dbError(err, "failed to find address by tuple")
	}

	return toAddressDomain(&addressM), nil
}

// CreateAddress creates a new address in the database.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAddressNotFound, "unknown locality reference")
		}

		return dbError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt

	return nil
}

// FindAddressByID retrieves an address by its ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id int64) (*entity.Address, error) {
	var addressM model.AddressModel

	if err := repo.db.WithContext(ctx).First(&addressM, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, dbError(err, "failed to find address by ID")
	}

	return toAddressDomain(&addressM), nil
}

type addressTextRow struct {
	BuildingNo       int
	FloorNo          int
	DoorNo           int
	StreetName       string
	NeighborhoodName string
	DistrictName     string
	ProvinceName     string
}

// AddressText renders "<neighborhood> Mah. <street> Sok. No: b, Kat: f, Daire: d, <district>/<province>".
// Zero building, floor or door numbers are left out.
func (repo *addressRepository) AddressText(ctx context.Context, id int64) (string, error) {
	var row addressTextRow

	result := repo.db.WithContext(ctx).
		Table("addresses AS a").
		Select("a.building_no, a.floor_no, a.door_no, s.name AS street_name, n.name AS neighborhood_name, " +
			"d.name AS district_name, p.name AS province_name").
		Joins("JOIN streets s ON s.id = a.street_id").
		Joins("JOIN neighborhoods n ON n.id = s.neighborhood_id").
		Joins("JOIN districts d ON d.id = n.district_id").
		Joins("JOIN provinces p ON p.id = d.province_id").
		Where("a.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return "", dbError(result.Error, "failed to render address")
	}
	if result.RowsAffected == 0 {
		return "", repository.ErrAddressNotFound
	}

	return formatAddress(&row), nil
}

func formatAddress(row *addressTextRow) string {
	var sb strings.Builder
	sb.WriteString(row.NeighborhoodName)
	sb.WriteString(" Mah. ")
	sb.WriteString(row.StreetName)
	sb.WriteString(" Sok. ")

	numbers := []struct {
		label string
		value int
	}{
		{"No", row.BuildingNo},
		{"Kat", row.FloorNo},
		{"Daire", row.DoorNo},
	}
	for _, n := range numbers {
		if n.value > 0 {
			sb.WriteString(n.label)
			sb.WriteString(": ")
			sb.WriteString(strconv.Itoa(n.value))
			sb.WriteString(", ")
		}
	}

	sb.WriteString(row.DistrictName)
	sb.WriteString("/")
	sb.WriteString(row.ProvinceName)

	return sb.String()
}

// ListProvinces lists every province ordered by name.
func (repo *addressRepository) ListProvinces(ctx context.Context) ([]entity.LocalityOption, error) {
	return repo.listLocalities(ctx, &[]model.ProvinceModel{}, "", 0)
}

// ListDistricts lists the districts of a province.
func (repo *addressRepository) ListDistricts(ctx context.Context, provinceID int64) ([]entity.LocalityOption, error) {
	return repo.listLocalities(ctx, &[]model.DistrictModel{}, "province_id", provinceID)
}

// ListNeighborhoods lists the neighborhoods of a district.
func (repo *addressRepository) ListNeighborhoods(ctx context.Context, districtID int64) ([]entity.LocalityOption, error) {
	return repo.listLocalities(ctx, &[]model.NeighborhoodModel{}, "district_id", districtID)
}

// ListStreets lists the streets of a neighborhood.
func (repo *addressRepository) ListStreets(ctx context.Context, neighborhoodID int64) ([]entity.LocalityOption, error) {
	return repo.listLocalities(ctx, &[]model.StreetModel{}, "neighborhood_id", neighborhoodID)
}

func (repo *addressRepository) listLocalities(ctx context.Context, table any, parentColumn string, parentID int64) ([]entity.LocalityOption, error) {
	var options []entity.LocalityOption

	query := repo.db.WithContext(ctx).Model(table).Select("id, name")
	if parentColumn != "" {
		query = query.Where(parentColumn+" = ?", parentID)
	}
	if err := query.Order("name").Scan(&options).Error; err != nil {
		return nil, dbError(err, "failed to list localities")
	}

	return options, nil
}

func toAddressDomain(data *model.AddressModel) *entity.Address {
	if data == nil {
		return nil
	}

	return &entity.Address{
		ID: data.ID,
		AddressTuple: entity.AddressTuple{
			ProvinceID:     data.ProvinceID,
			DistrictID:     data.DistrictID,
			NeighborhoodID: data.NeighborhoodID,
			StreetID:       data.StreetID,
			BuildingNo:     data.BuildingNo,
			FloorNo:        data.FloorNo,
			DoorNo:         data.DoorNo,
		},
		CreatedAt: data.CreatedAt,
	}
}

func fromAddressDomain(data *entity.Address) *model.AddressModel {
	if data == nil {
		return nil
	}

	return &model.AddressModel{
		ID:             data.ID,
		ProvinceID:     data.ProvinceID,
		DistrictID:     data.DistrictID,
		NeighborhoodID: data.NeighborhoodID,
		StreetID:       data.StreetID,
		BuildingNo:     data.BuildingNo,
		FloorNo:        data.FloorNo,
		DoorNo:         data.DoorNo,
		CreatedAt:      data.CreatedAt,
	}
}
