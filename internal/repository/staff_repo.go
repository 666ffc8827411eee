package repository

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.BusinessStaff) error
	// FindActive returns the active staff link for (business, user), if any.
	FindActive(ctx context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error)
	Find(ctx context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.BusinessStaff, error)
	Update(ctx context.Context, s *model.BusinessStaff) error
	SetActive(ctx context.Context, businessID, userID uuid.UUID, active bool) error
}

type staffRepo struct{ db *gorm.DB }

func NewStaffRepository(db *gorm.DB) StaffRepository { return &staffRepo{db: db} }

func (r *staffRepo) Create(ctx context.Context, tx *gorm.DB, s *model.BusinessStaff) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(s).Error
}

func (r *staffRepo) FindActive(ctx context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error) {
	var s model.BusinessStaff
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ? AND active = true", businessID, userID).
		First(&s).Error
	return &s, err
}

func (r *staffRepo) Find(ctx context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error) {
	var s model.BusinessStaff
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&s).Error
	return &s, err
}

func (r *staffRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.BusinessStaff, error) {
	var staff []model.BusinessStaff
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) Update(ctx context.Context, s *model.BusinessStaff) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *staffRepo) SetActive(ctx context.Context, businessID, userID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.BusinessStaff{}).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Update("active", active).Error
}
