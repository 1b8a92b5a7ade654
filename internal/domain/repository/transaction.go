package repository

import "context"

// TransactionManager defines the interface for running repository work on a pooled session.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error or panics, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error

	// Read runs a function on one session without opening a transaction.
	// It is meant for read-only queries.
	Read(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one session or transaction.
// This ensures all repository operations within a transaction use the same database connection.
type RepositoryFactory interface {
	NewAddressRepository() AddressRepository
	NewIndividualRepository() IndividualRepository
	NewOrganizationRepository() OrganizationRepository
	NewCredentialRepository() CredentialRepository
	NewDisposalRepository() DisposalRepository
	NewReservationRepository() ReservationRepository
	NewDashboardRepository() DashboardRepository
}

// SessionIdentity switches the identity tagged on sessions acquired afterwards.
type SessionIdentity interface {
	SetIdentity(identity string)
}
