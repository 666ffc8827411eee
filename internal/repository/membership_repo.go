package repository

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.Membership) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error)
	FindByUserAndProgram(ctx context.Context, userID, programID uuid.UUID) (*model.Membership, error)
	// FindForUpdateTx locks the membership row for the duration of tx so
	// concurrent stamp increments serialize on it.
	FindForUpdateTx(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*model.Membership, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, m *model.Membership) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type membershipRepo struct{ db *gorm.DB }

func NewMembershipRepository(db *gorm.DB) MembershipRepository { return &membershipRepo{db: db} }

func (r *membershipRepo) DB() *gorm.DB { return r.db }

func (r *membershipRepo) Create(ctx context.Context, tx *gorm.DB, m *model.Membership) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(m).Error
}

func (r *membershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).Preload("Program").First(&m, id).Error
	return &m, err
}

func (r *membershipRepo) FindByUserAndProgram(ctx context.Context, userID, programID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&m).Error
	return &m, err
}

func (r *membershipRepo) FindForUpdateTx(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&m).Error
	return &m, err
}

func (r *membershipRepo) UpdateTx(ctx context.Context, tx *gorm.DB, m *model.Membership) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(m).Error
}

func (r *membershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ? AND active = true", userID).
		Order("created_at DESC").
		Find(&memberships).Error
	return memberships, err
}
