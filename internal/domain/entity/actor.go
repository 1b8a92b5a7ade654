package entity

// ActorKind distinguishes the two account types.
type ActorKind string

const (
	ActorIndividual   ActorKind = "individual"
	ActorOrganization ActorKind = "organization"
)

// Valid reports whether k is a known actor kind.
func (k ActorKind) Valid() bool {
	return k == ActorIndividual || k == ActorOrganization
}

// Actor is the authenticated principal of a client session.
type Actor struct {
	Kind ActorKind
	ID   int64
	// Identifier is the national id of an individual or the tax id of an organization.
	Identifier  string
	DisplayName string
}

// Sex of an individual as recorded at registration.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is a recorded value.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}
