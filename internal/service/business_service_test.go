package service

import (
	"context"
	"testing"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) businessService() BusinessService {
	return NewBusinessService(f.businesses, f.staff, f.users, NewStaffGuard(f.staff))
}

func (f *fixture) programService() ProgramService {
	return NewProgramService(f.programs, NewStaffGuard(f.staff))
}

func TestCreateBusiness(t *testing.T) {
	f := newFixture()
	founder := &model.User{Subject: "sub-founder", Email: "f@x.test", DisplayName: "Founder", Role: "customer", Active: true}
	_ = f.users.Create(context.Background(), founder)

	resp, err := f.businessService().Create(context.Background(), founder, dto.CreateBusinessRequest{DisplayName: "New Bakery"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ExternalID)
	assert.Equal(t, "businessExternalId:"+resp.ExternalID, resp.JoinQRPayload)
	assert.Equal(t, "merchant", founder.Role, "creating a business upgrades the account")

	// The founder can immediately act as staff.
	businessID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	link, err := NewStaffGuard(f.staff).RequireOwner(context.Background(), founder.ID, businessID)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, link.Role)
}

func TestInviteStaff(t *testing.T) {
	f := newFixture()
	svc := f.businessService()
	ctx := context.Background()

	hire := &model.User{Subject: "sub-hire", Email: "hire@x.test", DisplayName: "Hire", Role: "customer", Active: true}
	_ = f.users.Create(ctx, hire)

	resp, err := svc.InviteStaff(ctx, f.owner, f.business.ID, dto.InviteStaffRequest{Email: "hire@x.test"})
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, resp.Role)

	// Re-inviting an active staff member conflicts.
	_, err = svc.InviteStaff(ctx, f.owner, f.business.ID, dto.InviteStaffRequest{Email: "hire@x.test"})
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))

	// Removal and re-invite reuse the same link.
	require.NoError(t, svc.RemoveStaff(ctx, f.owner, f.business.ID, hire.ID))
	_, err = NewStaffGuard(f.staff).RequireStaff(ctx, hire.ID, f.business.ID)
	assert.True(t, apierror.IsCode(err, apierror.CodeNotAuthorized))

	resp, err = svc.InviteStaff(ctx, f.owner, f.business.ID, dto.InviteStaffRequest{Email: "hire@x.test"})
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestInviteStaff_OwnerOnly(t *testing.T) {
	f := newFixture()

	_, err := f.businessService().InviteStaff(context.Background(), f.staffUser, f.business.ID, dto.InviteStaffRequest{Email: "x@x.test"})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotAuthorized))
}

func TestRemoveStaff_NeverTheOwner(t *testing.T) {
	f := newFixture()

	err := f.businessService().RemoveStaff(context.Background(), f.owner, f.business.ID, f.owner.ID)
	assert.True(t, apierror.IsCode(err, apierror.CodeNotAuthorized))
}

func TestProgramManagement(t *testing.T) {
	f := newFixture()
	svc := f.programService()
	ctx := context.Background()

	// Staff can read but not write programs.
	_, err := svc.Create(ctx, f.staffUser, f.business.ID, dto.CreateProgramRequest{Title: "T", RewardName: "R", MaxStamps: 5})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotAuthorized))

	created, err := svc.Create(ctx, f.owner, f.business.ID, dto.CreateProgramRequest{Title: "Tea Card", RewardName: "Free tea", MaxStamps: 8})
	require.NoError(t, err)
	assert.Equal(t, "star", created.StampIcon)

	listed, err := svc.List(ctx, f.staffUser, f.business.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	programID, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	updated, err := svc.Update(ctx, f.owner, f.business.ID, programID, dto.UpdateProgramRequest{RewardName: "Free matcha"})
	require.NoError(t, err)
	assert.Equal(t, "Free matcha", updated.RewardName)
	assert.Equal(t, 8, updated.MaxStamps)

	// A program from another business is invisible here.
	_, err = svc.Update(ctx, f.owner, f.business.ID, uuid.New(), dto.UpdateProgramRequest{Title: "X"})
	assert.True(t, apierror.IsCode(err, apierror.CodeProgramNotFound))
}
