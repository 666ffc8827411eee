package service

import (
	"context"
	"errors"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessService interface {
	Create(ctx context.Context, caller *model.User, req dto.CreateBusinessRequest) (*dto.BusinessResponse, error)
	ListMine(ctx context.Context, caller *model.User) ([]dto.BusinessResponse, error)
	Get(ctx context.Context, caller *model.User, businessID uuid.UUID) (*dto.BusinessResponse, error)
	SetActive(ctx context.Context, caller *model.User, businessID uuid.UUID, active bool) error
	InviteStaff(ctx context.Context, caller *model.User, businessID uuid.UUID, req dto.InviteStaffRequest) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context, caller *model.User, businessID uuid.UUID) ([]dto.StaffResponse, error)
	RemoveStaff(ctx context.Context, caller *model.User, businessID, staffUserID uuid.UUID) error
}

type businessService struct {
	businesses repository.BusinessRepository
	staff      repository.StaffRepository
	users      repository.UserRepository
	guard      StaffGuard
}

func NewBusinessService(
	businesses repository.BusinessRepository,
	staff repository.StaffRepository,
	users repository.UserRepository,
	guard StaffGuard,
) BusinessService {
	return &businessService{businesses: businesses, staff: staff, users: users, guard: guard}
}

func (s *businessService) Create(ctx context.Context, caller *model.User, req dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	business := &model.Business{
		OwnerID: caller.ID,
		// The external id lives forever inside printed QR posters, so it is a
		// random uuid with no relation to the row id.
		ExternalID:  uuid.NewString(),
		DisplayName: req.DisplayName,
		Active:      true,
	}

	err := runTx(ctx, s.businesses.DB(), func(tx *gorm.DB) error {
		if err := s.businesses.Create(ctx, tx, business); err != nil {
			return err
		}
		return s.staff.Create(ctx, tx, &model.BusinessStaff{
			BusinessID: business.ID,
			UserID:     caller.ID,
			Role:       RoleOwner,
			Active:     true,
		})
	})
	if err != nil {
		return nil, err
	}

	if caller.Role == "customer" {
		caller.Role = "merchant"
		if err := s.users.Update(ctx, caller); err != nil {
			return nil, err
		}
	}

	return businessToResponse(business), nil
}

func (s *businessService) ListMine(ctx context.Context, caller *model.User) ([]dto.BusinessResponse, error) {
	businesses, err := s.businesses.ListByStaffUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessResponse, 0, len(businesses))
	for i := range businesses {
		out = append(out, *businessToResponse(&businesses[i]))
	}
	return out, nil
}

func (s *businessService) Get(ctx context.Context, caller *model.User, businessID uuid.UUID) (*dto.BusinessResponse, error) {
	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, apierror.E(apierror.CodeBusinessNotFound)
	}
	return businessToResponse(business), nil
}

func (s *businessService) SetActive(ctx context.Context, caller *model.User, businessID uuid.UUID, active bool) error {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return err
	}
	return s.businesses.SetActive(ctx, businessID, active)
}

func (s *businessService) InviteStaff(ctx context.Context, caller *model.User, businessID uuid.UUID, req dto.InviteStaffRequest) (*dto.StaffResponse, error) {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	invitee, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apierror.E(apierror.CodeUserNotFound)
	}

	if existing, err := s.staff.Find(ctx, businessID, invitee.ID); err == nil {
		if existing.Active {
			return nil, apierror.E(apierror.CodeConflict)
		}
		// Re-invite of a previously removed staff member.
		existing.Active = true
		if err := s.staff.Update(ctx, existing); err != nil {
			return nil, err
		}
		return staffToResponse(existing, invitee), nil
	}

	link := &model.BusinessStaff{
		BusinessID: businessID,
		UserID:     invitee.ID,
		Role:       RoleStaff,
		Active:     true,
	}
	if err := s.staff.Create(ctx, nil, link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.E(apierror.CodeConflict)
		}
		return nil, err
	}
	return staffToResponse(link, invitee), nil
}

func (s *businessService) ListStaff(ctx context.Context, caller *model.User, businessID uuid.UUID) ([]dto.StaffResponse, error) {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	links, err := s.staff.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StaffResponse, 0, len(links))
	for i := range links {
		user, err := s.users.FindByID(ctx, links[i].UserID)
		if err != nil {
			continue
		}
		out = append(out, *staffToResponse(&links[i], user))
	}
	return out, nil
}

func (s *businessService) RemoveStaff(ctx context.Context, caller *model.User, businessID, staffUserID uuid.UUID) error {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return err
	}

	link, err := s.staff.Find(ctx, businessID, staffUserID)
	if err != nil {
		return apierror.E(apierror.CodeUserNotFound)
	}
	// Owners cannot be removed, not even by themselves; ownership transfer is
	// a support operation.
	if link.Role == RoleOwner {
		return apierror.E(apierror.CodeNotAuthorized)
	}
	return s.staff.SetActive(ctx, businessID, staffUserID, false)
}

func businessToResponse(b *model.Business) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:            b.ID.String(),
		ExternalID:    b.ExternalID,
		DisplayName:   b.DisplayName,
		Active:        b.Active,
		JoinQRPayload: BusinessQRPrefix + b.ExternalID,
	}
}

func staffToResponse(link *model.BusinessStaff, user *model.User) *dto.StaffResponse {
	return &dto.StaffResponse{
		UserID:      user.ID.String(),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        link.Role,
		Active:      link.Active,
	}
}
