package repository

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramRepository interface {
	Create(ctx context.Context, p *model.LoyaltyProgram) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error)
	// FindActiveByBusiness returns the business's active program. Businesses
	// run one live program at a time; the join QR resolves against it.
	FindActiveByBusiness(ctx context.Context, businessID uuid.UUID) (*model.LoyaltyProgram, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.LoyaltyProgram, error)
	Update(ctx context.Context, p *model.LoyaltyProgram) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type programRepo struct{ db *gorm.DB }

func NewProgramRepository(db *gorm.DB) ProgramRepository { return &programRepo{db: db} }

func (r *programRepo) Create(ctx context.Context, p *model.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *programRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *programRepo) FindActiveByBusiness(ctx context.Context, businessID uuid.UUID) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = true", businessID).
		Order("created_at DESC").
		First(&p).Error
	return &p, err
}

func (r *programRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.LoyaltyProgram, error) {
	var programs []model.LoyaltyProgram
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, p *model.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *programRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.LoyaltyProgram{}).Where("id = ?", id).Update("active", active).Error
}
