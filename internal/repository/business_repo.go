package repository

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, tx *gorm.DB, b *model.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.Business, error)
	ListByStaffUser(ctx context.Context, userID uuid.UUID) ([]model.Business, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type businessRepo struct{ db *gorm.DB }

func NewBusinessRepository(db *gorm.DB) BusinessRepository { return &businessRepo{db: db} }

func (r *businessRepo) DB() *gorm.DB { return r.db }

func (r *businessRepo) Create(ctx context.Context, tx *gorm.DB, b *model.Business) error {
	return tx.WithContext(ctx).Create(b).Error
}

func (r *businessRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *businessRepo) FindByExternalID(ctx context.Context, externalID string) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&b).Error
	return &b, err
}

func (r *businessRepo) ListByStaffUser(ctx context.Context, userID uuid.UUID) ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.WithContext(ctx).
		Joins("JOIN business_staffs ON business_staffs.business_id = businesses.id").
		Where("business_staffs.user_id = ? AND business_staffs.active = true", userID).
		Find(&businesses).Error
	return businesses, err
}

func (r *businessRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Business{}).Where("id = ?", id).Update("active", active).Error
}
