package service

import (
	"context"
	"errors"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/config"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScanService implements the staff side of the scan protocol: decoding a
// presented QR, granting stamps and redeeming rewards.
type ScanService interface {
	// Resolve looks up a scanned customer token in the context of the staff
	// member's (business, program). It is read-only: resolving the same live
	// token twice yields the same result and consumes nothing.
	Resolve(ctx context.Context, caller *model.User, req dto.ResolveScanRequest) (*dto.ResolveScanResponse, error)
	// AddStamp grants exactly one stamp to the customer's membership,
	// creating the membership on the first stamp.
	AddStamp(ctx context.Context, caller *model.User, req dto.AddStampRequest) (*dto.AddStampResponse, error)
	// RedeemReward resets a full card back to zero stamps.
	RedeemReward(ctx context.Context, caller *model.User, req dto.RedeemRewardRequest) (*dto.RedeemRewardResponse, error)
	// ListEvents returns the business's stamp ledger, newest first.
	ListEvents(ctx context.Context, caller *model.User, businessID uuid.UUID, filter dto.StampEventFilter) (*dto.StampEventListResponse, error)
}

type scanService struct {
	users       repository.UserRepository
	businesses  repository.BusinessRepository
	programs    repository.ProgramRepository
	memberships repository.MembershipRepository
	tokens      repository.ScanTokenRepository
	events      repository.StampEventRepository
	guard       StaffGuard
	dispatcher  *worker.Dispatcher
	cfg         *config.Config
}

func NewScanService(
	users repository.UserRepository,
	businesses repository.BusinessRepository,
	programs repository.ProgramRepository,
	memberships repository.MembershipRepository,
	tokens repository.ScanTokenRepository,
	events repository.StampEventRepository,
	guard StaffGuard,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) ScanService {
	return &scanService{
		users:       users,
		businesses:  businesses,
		programs:    programs,
		memberships: memberships,
		tokens:      tokens,
		events:      events,
		guard:       guard,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// ── Resolve ───────────────────────────────────────────────────────────────────

func (s *scanService) Resolve(ctx context.Context, caller *model.User, req dto.ResolveScanRequest) (*dto.ResolveScanResponse, error) {
	businessID, programID, err := parseScanScope(req.BusinessID, req.ProgramID)
	if err != nil {
		return nil, err
	}

	// Authorization comes before any token lookup: an unauthorized caller
	// learns nothing about the token, not even whether it exists.
	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	token, err := s.tokens.FindByPayload(ctx, req.QRData)
	if err != nil {
		return nil, apierror.E(apierror.CodeInvalidQR)
	}
	// Expiry is checked before the consumed/superseded state: a token that is
	// both expired and used reads as expired, which tells staff the customer
	// simply needs to refresh their screen.
	if token.Expired(time.Now()) {
		return nil, apierror.E(apierror.CodeExpiredToken)
	}
	if token.Status != model.TokenIssued {
		return nil, apierror.E(apierror.CodeTokenAlreadyUsed)
	}

	membership := token.Membership
	if membership == nil || !membership.Active {
		return nil, apierror.E(apierror.CodeMembershipNotFound)
	}
	if membership.UserID == caller.ID {
		return nil, apierror.E(apierror.CodeSelfStamp)
	}

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil || !business.Active {
		return nil, apierror.E(apierror.CodeBusinessInactive)
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil || !program.Active || program.BusinessID != businessID {
		return nil, apierror.E(apierror.CodeProgramNotFound)
	}

	customer, err := s.users.FindByID(ctx, membership.UserID)
	if err != nil || !customer.Active {
		return nil, apierror.E(apierror.CodeCustomerNotFound)
	}

	resp := &dto.ResolveScanResponse{
		CustomerUserID:      customer.ID.String(),
		CustomerDisplayName: customer.DisplayName,
	}
	// The token's membership identifies the customer; whether that customer
	// also holds a card for THIS program is a separate question. Nil means
	// the first stamp will enroll them.
	if m, err := s.memberships.FindByUserAndProgram(ctx, customer.ID, programID); err == nil && m.Active {
		resp.Membership = &dto.MembershipSnapshot{
			MembershipID:  m.ID.String(),
			CurrentStamps: m.CurrentStamps,
			MaxStamps:     program.MaxStamps,
			CanRedeemNow:  m.CanRedeem(program.MaxStamps),
		}
	}
	return resp, nil
}

// ── AddStamp ──────────────────────────────────────────────────────────────────

func (s *scanService) AddStamp(ctx context.Context, caller *model.User, req dto.AddStampRequest) (*dto.AddStampResponse, error) {
	businessID, programID, err := parseScanScope(req.BusinessID, req.ProgramID)
	if err != nil {
		return nil, err
	}
	customerID, err := uuid.Parse(req.CustomerUserID)
	if err != nil {
		return nil, apierror.E(apierror.CodeCustomerNotFound)
	}

	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}
	if customerID == caller.ID {
		return nil, apierror.E(apierror.CodeSelfStamp)
	}

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil || !business.Active {
		return nil, apierror.E(apierror.CodeBusinessInactive)
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil || !program.Active || program.BusinessID != businessID {
		return nil, apierror.E(apierror.CodeProgramNotFound)
	}
	customer, err := s.users.FindByID(ctx, customerID)
	if err != nil || !customer.Active {
		return nil, apierror.E(apierror.CodeCustomerNotFound)
	}

	var result dto.AddStampResponse
	var rewardReady bool

	txErr := runTx(ctx, s.memberships.DB(), func(tx *gorm.DB) error {
		now := time.Now()
		membership, err := s.memberships.FindForUpdateTx(ctx, tx, customerID, programID)

		// The cooldown is read only after the row lock above is held, so a
		// competing stamper that just committed is visible here. For a
		// first-time customer there is no row to lock; the unique
		// (user, program) index closes that window instead.
		if latest, evErr := s.events.FindLatestTx(ctx, tx, businessID, customerID); evErr == nil {
			if now.Sub(latest.CreatedAt) < s.cfg.StampCooldown() {
				return apierror.E(apierror.CodeRateLimited)
			}
		}

		switch {
		case err == nil && membership.Active:
			if membership.CurrentStamps >= program.MaxStamps {
				return apierror.E(apierror.CodeCardFull)
			}
			membership.CurrentStamps++
			membership.LastStampAt = &now
			if err := s.memberships.UpdateTx(ctx, tx, membership); err != nil {
				return err
			}
		case err == nil:
			// Re-activate a previously abandoned card and restart its count.
			membership.Active = true
			membership.CurrentStamps = 1
			membership.LastStampAt = &now
			if err := s.memberships.UpdateTx(ctx, tx, membership); err != nil {
				return err
			}
		default:
			membership = &model.Membership{
				UserID:        customerID,
				ProgramID:     programID,
				CurrentStamps: 1,
				LastStampAt:   &now,
				Active:        true,
			}
			if err := s.memberships.Create(ctx, tx, membership); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// A concurrent first stamp won the race; within the
					// cooldown window the loser reads as rate limited.
					return apierror.E(apierror.CodeRateLimited)
				}
				return err
			}
		}

		// Any live token for this membership is spent by the stamp, whether
		// or not the stamp came through that token.
		if err := s.tokens.ConsumeLiveTx(ctx, tx, membership.ID, now); err != nil {
			return err
		}

		if err := s.events.CreateTx(ctx, tx, &model.StampEvent{
			BusinessID:      businessID,
			ProgramID:       programID,
			CustomerUserID:  customerID,
			StaffUserID:     caller.ID,
			EventType:       model.EventStampAdded,
			ResultingStamps: membership.CurrentStamps,
		}); err != nil {
			return err
		}

		rewardReady = membership.CanRedeem(program.MaxStamps)
		result = dto.AddStampResponse{
			OK:            true,
			CurrentStamps: membership.CurrentStamps,
			MaxStamps:     program.MaxStamps,
			CanRedeemNow:  rewardReady,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if rewardReady && s.dispatcher != nil {
		if err := s.dispatcher.EnqueueNotify(ctx, worker.NotifyJobPayload{
			ToEmail:      customer.Email,
			CustomerName: customer.DisplayName,
			BusinessName: business.DisplayName,
			RewardName:   program.RewardName,
		}); err != nil {
			// The stamp already committed; a lost notification is not worth
			// failing the request over.
			log.Warn().Err(err).Str("customer_id", customerID.String()).Msg("could not enqueue reward notification")
		}
	}

	return &result, nil
}

// ── RedeemReward ──────────────────────────────────────────────────────────────

func (s *scanService) RedeemReward(ctx context.Context, caller *model.User, req dto.RedeemRewardRequest) (*dto.RedeemRewardResponse, error) {
	businessID, programID, err := parseScanScope(req.BusinessID, req.ProgramID)
	if err != nil {
		return nil, err
	}
	customerID, err := uuid.Parse(req.CustomerUserID)
	if err != nil {
		return nil, apierror.E(apierror.CodeCustomerNotFound)
	}

	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil || !business.Active {
		return nil, apierror.E(apierror.CodeBusinessInactive)
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil || !program.Active || program.BusinessID != businessID {
		return nil, apierror.E(apierror.CodeProgramNotFound)
	}

	txErr := runTx(ctx, s.memberships.DB(), func(tx *gorm.DB) error {
		membership, err := s.memberships.FindForUpdateTx(ctx, tx, customerID, programID)
		if err != nil || !membership.Active {
			return apierror.E(apierror.CodeMembershipNotFound)
		}
		if !membership.CanRedeem(program.MaxStamps) {
			return apierror.E(apierror.CodeRewardNotReady)
		}

		membership.CurrentStamps = 0
		if err := s.memberships.UpdateTx(ctx, tx, membership); err != nil {
			return err
		}
		return s.events.CreateTx(ctx, tx, &model.StampEvent{
			BusinessID:      businessID,
			ProgramID:       programID,
			CustomerUserID:  customerID,
			StaffUserID:     caller.ID,
			EventType:       model.EventRewardRedeemed,
			ResultingStamps: 0,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.RedeemRewardResponse{OK: true, RewardName: program.RewardName}, nil
}

// ── ListEvents ────────────────────────────────────────────────────────────────

func (s *scanService) ListEvents(ctx context.Context, caller *model.User, businessID uuid.UUID, filter dto.StampEventFilter) (*dto.StampEventListResponse, error) {
	if _, err := s.guard.RequireStaff(ctx, caller.ID, businessID); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	events, total, err := s.events.ListByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StampEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.StampEventResponse{
			ID:              e.ID.String(),
			EventType:       e.EventType,
			CustomerUserID:  e.CustomerUserID.String(),
			StaffUserID:     e.StaffUserID.String(),
			ProgramID:       e.ProgramID.String(),
			ResultingStamps: e.ResultingStamps,
			CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.StampEventListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// parseScanScope validates the (business, program) pair every staff scan
// operation is addressed to.
func parseScanScope(businessID, programID string) (uuid.UUID, uuid.UUID, error) {
	bid, err := uuid.Parse(businessID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.E(apierror.CodeBusinessNotFound)
	}
	pid, err := uuid.Parse(programID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.E(apierror.CodeProgramNotFound)
	}
	return bid, pid, nil
}
