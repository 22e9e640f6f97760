package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	rec := toUserRecord(identity)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *IdentityRepository) findOne(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	identity := rec.toDomain()
	return &identity, nil
}

func (r *IdentityRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// EmailExists compares case-insensitively.
func (r *IdentityRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *IdentityRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *IdentityRepository) ListPending(ctx context.Context) ([]domain.Identity, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).
		Where("user_type = ? AND is_approved = ?", string(domain.RolePharmacy), false).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return identities(recs), nil
}

func (r *IdentityRepository) Approve(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userRecord
		if err := tx.Select("id").Where("id = ?", id).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}
		if err := tx.Model(&userRecord{}).Where("id = ?", id).Update("is_approved", true).Error; err != nil {
			return fmt.Errorf("approve user: %w", err)
		}
		return nil
	})
}

func (r *IdentityRepository) CountPharmacies(ctx context.Context, approved bool) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("user_type = ? AND is_approved = ?", string(domain.RolePharmacy), approved).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count pharmacies: %w", err)
	}
	return n, nil
}

func (r *IdentityRepository) RecentPharmacies(ctx context.Context, limit int) ([]domain.Identity, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).
		Where("user_type = ?", string(domain.RolePharmacy)).
		Order("created_at DESC").
		Scopes(withLimit(limit)).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("recent pharmacies: %w", err)
	}
	return identities(recs), nil
}

func identities(recs []userRecord) []domain.Identity {
	out := make([]domain.Identity, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out
}
