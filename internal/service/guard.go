package service

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"

	"github.com/google/uuid"
)

// Staff roles within a business.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// StaffGuard confirms the caller holds an active staff link for a business.
// It is invoked at the start of every staff-facing operation and re-checked
// per call — staff can be deactivated between requests, so the result is
// never cached.
type StaffGuard interface {
	// RequireStaff returns the caller's active staff record for the business,
	// or NOT_AUTHORIZED.
	RequireStaff(ctx context.Context, userID, businessID uuid.UUID) (*model.BusinessStaff, error)
	// RequireOwner additionally demands the owner role (staff invitation,
	// program management).
	RequireOwner(ctx context.Context, userID, businessID uuid.UUID) (*model.BusinessStaff, error)
}

type staffGuard struct {
	staff repository.StaffRepository
}

func NewStaffGuard(staff repository.StaffRepository) StaffGuard {
	return &staffGuard{staff: staff}
}

func (g *staffGuard) RequireStaff(ctx context.Context, userID, businessID uuid.UUID) (*model.BusinessStaff, error) {
	link, err := g.staff.FindActive(ctx, businessID, userID)
	if err != nil {
		return nil, apierror.E(apierror.CodeNotAuthorized)
	}
	return link, nil
}

func (g *staffGuard) RequireOwner(ctx context.Context, userID, businessID uuid.UUID) (*model.BusinessStaff, error) {
	link, err := g.RequireStaff(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}
	if link.Role != RoleOwner {
		return nil, apierror.E(apierror.CodeNotAuthorized)
	}
	return link, nil
}
