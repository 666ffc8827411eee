package repository

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StampEventRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, e *model.StampEvent) error
	// FindLatestTx returns the most recent event for (business, customer);
	// the cooldown check reads it inside the stamp transaction.
	FindLatestTx(ctx context.Context, tx *gorm.DB, businessID, customerID uuid.UUID) (*model.StampEvent, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filter dto.StampEventFilter) ([]model.StampEvent, int64, error)
}

type stampEventRepo struct{ db *gorm.DB }

func NewStampEventRepository(db *gorm.DB) StampEventRepository { return &stampEventRepo{db: db} }

func (r *stampEventRepo) CreateTx(ctx context.Context, tx *gorm.DB, e *model.StampEvent) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(e).Error
}

func (r *stampEventRepo) FindLatestTx(ctx context.Context, tx *gorm.DB, businessID, customerID uuid.UUID) (*model.StampEvent, error) {
	if tx == nil {
		tx = r.db
	}
	var e model.StampEvent
	err := tx.WithContext(ctx).
		Where("business_id = ? AND customer_user_id = ?", businessID, customerID).
		Order("created_at DESC").
		First(&e).Error
	return &e, err
}

func (r *stampEventRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter dto.StampEventFilter) ([]model.StampEvent, int64, error) {
	var events []model.StampEvent
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.StampEvent{}).Where("business_id = ?", businessID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&events).Error

	return events, total, err
}
