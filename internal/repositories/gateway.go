package repositories

import (
	"errors"
	"fmt"

	"horologe/internal/apperrors"

	"gorm.io/gorm"
)

// Tx bundles transaction-scoped repositories. Every repository reached
// through a Tx shares one database transaction.
type Tx struct {
	Products   ProductRepository
	Categories CategoryRepository
	Users      UserRepository
	Orders     OrderRepository
}

// Gateway is the single choke point for mutating operations. Commit runs
// the given function inside one transaction: if the function or the final
// commit fails, everything rolls back and nothing of the attempt survives.
// Uniqueness and foreign-key rejections come back as
// apperrors.ErrConstraint; any other failure propagates unchanged.
type Gateway interface {
	Commit(fn func(tx Tx) error) error
}

// GORMGateway implements Gateway over a gorm database handle.
type GORMGateway struct {
	db *gorm.DB
}

// NewGORMGateway creates a new instance of GORMGateway.
func NewGORMGateway(db *gorm.DB) *GORMGateway {
	return &GORMGateway{
		db: db,
	}
}

// Commit executes fn within a transaction and translates store-level
// constraint rejections into the application error taxonomy.
func (g *GORMGateway) Commit(fn func(tx Tx) error) error {
	err := g.db.Transaction(func(gtx *gorm.DB) error {
		return fn(Tx{
			Products:   NewGORMProductRepository(gtx),
			Categories: NewGORMCategoryRepository(gtx),
			Users:      NewGORMUserRepository(gtx),
			Orders:     NewGORMOrderRepository(gtx),
		})
	})
	return translateStoreError(err)
}

// translateStoreError maps gorm's translated driver errors onto the
// application taxonomy. Errors already carrying an apperrors sentinel
// pass through untouched.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrConstraint),
		errors.Is(err, apperrors.ErrNotFound):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", apperrors.ErrConstraint)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: missing referenced row", apperrors.ErrConstraint)
	default:
		return err
	}
}
