package model

// All lists every persisted model, in dependency order, for schema tooling and tests.
func All() []any {
	return []any{
		&ProvinceModel{},
		&DistrictModel{},
		&NeighborhoodModel{},
		&StreetModel{},
		&AddressModel{},
		&IndividualModel{},
		&OrganizationModel{},
		&IndividualCredentialModel{},
		&OrganizationCredentialModel{},
		&DisposalTypeModel{},
		&OrganizationDisposalTypeModel{},
		&DisposalItemModel{},
		&ReservationModel{},
		&ReservationItemModel{},
	}
}
