package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db           *gorm.DB
	embeddingDim int
}

// NewRepositoryFactory wires the shared DB handle and the configured
// embedding dimension into every UnitOfWork it produces.
func NewRepositoryFactory(db *gorm.DB, embeddingDim int) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db:           db,
		embeddingDim: embeddingDim,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// UoW is short lived per request; the context is applied when Begin()
	// is called or passed explicitly to repository methods.
	return NewUnitOfWork(f.db, f.embeddingDim)
}
