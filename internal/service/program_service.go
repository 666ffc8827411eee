package service

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"

	"github.com/google/uuid"
)

type ProgramService interface {
	Create(ctx context.Context, caller *model.User, businessID uuid.UUID, req dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	List(ctx context.Context, caller *model.User, businessID uuid.UUID) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, caller *model.User, businessID, programID uuid.UUID, req dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
	SetActive(ctx context.Context, caller *model.User, businessID, programID uuid.UUID, active bool) error
}

type programService struct {
	programs repository.ProgramRepository
	guard    StaffGuard
}

func NewProgramService(programs repository.ProgramRepository, guard StaffGuard) ProgramService {
	return &programService{programs: programs, guard: guard}
}

func (s *programService) Create(ctx context.Context, caller *model.User, businessID uuid.UUID, req dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	icon := req.StampIcon
	if icon == "" {
		icon = "star"
	}
	program := &model.LoyaltyProgram{
		BusinessID: businessID,
		Title:      req.Title,
		RewardName: req.RewardName,
		MaxStamps:  req.MaxStamps,
		StampIcon:  icon,
		Active:     true,
	}
	if err := s.programs.Create(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *programService) List(ctx context.Context, caller *model.User, businessID uuid.UUID) ([]dto.ProgramResponse, error) {
	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		out = append(out, *programToResponse(&programs[i]))
	}
	return out, nil
}

func (s *programService) Update(ctx context.Context, caller *model.User, businessID, programID uuid.UUID, req dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	program, err := s.programs.FindByID(ctx, programID)
	if err != nil || program.BusinessID != businessID {
		return nil, apierror.E(apierror.CodeProgramNotFound)
	}

	// MaxStamps is deliberately immutable: shrinking it would strand cards
	// past the new cap, growing it moves the goalposts on customers mid-cycle.
	// Merchants start a new program instead.
	if req.Title != "" {
		program.Title = req.Title
	}
	if req.RewardName != "" {
		program.RewardName = req.RewardName
	}
	if req.StampIcon != "" {
		program.StampIcon = req.StampIcon
	}
	if err := s.programs.Update(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *programService) SetActive(ctx context.Context, caller *model.User, businessID, programID uuid.UUID, active bool) error {
	if _, err := s.guard.RequireOwner(ctx, caller.ID, businessID); err != nil {
		return err
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil || program.BusinessID != businessID {
		return apierror.E(apierror.CodeProgramNotFound)
	}
	return s.programs.SetActive(ctx, programID, active)
}

func programToResponse(p *model.LoyaltyProgram) *dto.ProgramResponse {
	return &dto.ProgramResponse{
		ID:         p.ID.String(),
		BusinessID: p.BusinessID.String(),
		Title:      p.Title,
		RewardName: p.RewardName,
		MaxStamps:  p.MaxStamps,
		StampIcon:  p.StampIcon,
		Active:     p.Active,
	}
}
