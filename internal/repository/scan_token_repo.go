package repository

import (
	"context"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScanTokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.ScanToken) error
	FindByPayload(ctx context.Context, payload string) (*model.ScanToken, error)
	// SupersedeLive marks every still-issued token of the membership as
	// superseded. Called by the issuer so at most one token is live at a time.
	SupersedeLive(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID) error
	// ConsumeLiveTx marks every still-issued token of the membership as
	// consumed, inside the stamp transaction.
	ConsumeLiveTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID, at time.Time) error
	DB() *gorm.DB
}

type scanTokenRepo struct{ db *gorm.DB }

func NewScanTokenRepository(db *gorm.DB) ScanTokenRepository { return &scanTokenRepo{db: db} }

func (r *scanTokenRepo) DB() *gorm.DB { return r.db }

func (r *scanTokenRepo) Create(ctx context.Context, tx *gorm.DB, t *model.ScanToken) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(t).Error
}

func (r *scanTokenRepo) FindByPayload(ctx context.Context, payload string) (*model.ScanToken, error) {
	var t model.ScanToken
	err := r.db.WithContext(ctx).
		Preload("Membership").
		Where("payload = ?", payload).
		First(&t).Error
	return &t, err
}

func (r *scanTokenRepo) SupersedeLive(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&model.ScanToken{}).
		Where("membership_id = ? AND status = ?", membershipID, model.TokenIssued).
		Update("status", model.TokenSuperseded).Error
}

func (r *scanTokenRepo) ConsumeLiveTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID, at time.Time) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&model.ScanToken{}).
		Where("membership_id = ? AND status = ?", membershipID, model.TokenIssued).
		Updates(map[string]interface{}{"status": model.TokenConsumed, "consumed_at": at}).Error
}
