package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
)

// UserRepository is the credential store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns (nil, nil) when no account uses email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("STORE_QUERY_FAILED").With("operation", "find user by email").Wrap(err)
	}
	return &user, nil
}

// FindByID returns errs.ErrNotFound when id does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("STORE_QUERY_FAILED").With("operation", "find user by id").With("user_id", id).Wrap(err)
	}
	return &user, nil
}

// Exists reports whether id still names an account.
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts a user. A concurrent insert of the same email loses on the
// unique index and gets errs.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	user := models.User{Email: email, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errs.ErrDuplicateEmail
		}
		return nil, oops.Code("STORE_INSERT_FAILED").With("operation", "create user").Wrap(err)
	}
	return &user, nil
}

// AdminID returns the lowest user id; ok is false when there are no users.
func (r *UserRepository) AdminID(ctx context.Context) (uint, bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := database.WithTimeout(ctx)
	defer cancel()

	var lowest sql.NullInt64
	row := r.db.WithContext(ctx).Model(&models.User{}).Select("MIN(id)").Row()
	if err := row.Scan(&lowest); err != nil {
		return 0, false, oops.Code("STORE_QUERY_FAILED").With("operation", "admin id").Wrap(err)
	}
	if !lowest.Valid {
		return 0, false, nil
	}
	return uint(lowest.Int64), true, nil
}
