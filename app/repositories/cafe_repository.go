package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
)

// CafeRepository persists directory listings.
type CafeRepository struct {
	db *gorm.DB
}

func NewCafeRepository(db *gorm.DB) *CafeRepository {
	return &CafeRepository{db: db}
}

// FindByName returns (nil, nil) when no cafe has name.
func (r *CafeRepository) FindByName(ctx context.Context, name string) (*models.Cafe, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	var cafe models.Cafe
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&cafe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("STORE_QUERY_FAILED").With("operation", "find cafe by name").Wrap(err)
	}
	return &cafe, nil
}

// All returns every cafe in insertion order.
func (r *CafeRepository) All(ctx context.Context) ([]models.Cafe, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	cafes := []models.Cafe{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cafes).Error; err != nil {
		return nil, oops.Code("STORE_QUERY_FAILED").With("operation", "list cafes").Wrap(err)
	}
	return cafes, nil
}

// FindByID returns errs.ErrNotFound when id does not exist.
func (r *CafeRepository) FindByID(ctx context.Context, id uint) (*models.Cafe, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	var cafe models.Cafe
	err := r.db.WithContext(ctx).Take(&cafe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("STORE_QUERY_FAILED").With("operation", "find cafe by id").With("cafe_id", id).Wrap(err)
	}
	return &cafe, nil
}

// Create inserts cafe and fills in its ID. A name already taken, including
// by a concurrent insert, yields errs.ErrDuplicateName.
func (r *CafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(cafe).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errs.ErrDuplicateName
		}
		return oops.Code("STORE_INSERT_FAILED").With("operation", "create cafe").Wrap(err)
	}
	return nil
}

// Delete removes the cafe permanently; errs.ErrNotFound when nothing matched.
func (r *CafeRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Cafe{}, id)
	if res.Error != nil {
		return oops.Code("STORE_DELETE_FAILED").With("operation", "delete cafe").With("cafe_id", id).Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
