package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one *gorm.DB so a service can
// run a multi-repository unit of work in a single transaction.
type Repositories struct {
	Users        UserRepository
	Lots         LotRepository
	Spots        SpotRepository
	Reservations ReservationRepository
	Activities   ActivityRepository
	ExportJobs   ExportJobRepository
}

// NewRepositories builds the bundle over db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Lots:         NewLotRepository(db),
		Spots:        NewSpotRepository(db),
		Reservations: NewReservationRepository(db),
		Activities:   NewActivityRepository(db),
		ExportJobs:   NewExportJobRepository(db),
	}
}

// TxManager opens database transactions scoped to a repository bundle.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager over db.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction executes fn within a database transaction; every
// repository in the bundle passed to fn is bound to that transaction.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
