// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"greenhood/internal/domain/repository"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface on provider sessions.
type gormTransactionManager struct {
	provider *Provider
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds either a session handle or a transaction started on it
// and uses it to create repository instances bound to that connection.
type gormRepositoryFactory struct {
	tx *gorm.DB
}

func (f *gormRepositoryFactory) NewAddressRepository() repository.AddressRepository {
	return NewAddressRepository(f.tx)
}

func (f *gormRepositoryFactory) NewIndividualRepository() repository.IndividualRepository {
	return NewIndividualRepository(f.tx)
}

func (f *gormRepositoryFactory) NewOrganizationRepository() repository.OrganizationRepository {
	return NewOrganizationRepository(f.tx)
}

func (f *gormRepositoryFactory) NewCredentialRepository() repository.CredentialRepository {
	return NewCredentialRepository(f.tx)
}

func (f *gormRepositoryFactory) NewDisposalRepository() repository.DisposalRepository {
	return NewDisposalRepository(f.tx)
}

func (f *gormRepositoryFactory) NewReservationRepository() repository.ReservationRepository {
	return NewReservationRepository(f.tx)
}

func (f *gormRepositoryFactory) NewDashboardRepository() repository.DashboardRepository {
	return NewDashboardRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(provider *Provider) repository.TransactionManager {
	return &gormTransactionManager{provider: provider}
}

// Execute runs the given function within a single database transaction on one acquired session.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return tm.provider.WithSession(ctx, func(db *gorm.DB) error {
		tx := db.Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		// A panic inside the callback still rolls back before the session is released.
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()

		err := fn(&gormRepositoryFactory{tx: tx})
		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
			}

			return err
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		return nil
	})
}

// Read runs the given function on one acquired session without a transaction.
func (tm *gormTransactionManager) Read(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return tm.provider.WithSession(ctx, func(db *gorm.DB) error {
		return fn(&gormRepositoryFactory{tx: db})
	})
}
