package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/config"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessQRPrefix marks the non-expiring join QR printed by merchants, as
// opposed to the rotating scan tokens customers present.
const BusinessQRPrefix = "businessExternalId:"

type WalletService interface {
	// IssueScanToken mints a fresh single-use token for one of the caller's
	// own memberships. Prior live tokens for the membership are superseded.
	IssueScanToken(ctx context.Context, caller *model.User, membershipID uuid.UUID) (*dto.ScanTokenResponse, error)
	// Join enrolls the caller in the program behind a scanned business QR.
	Join(ctx context.Context, caller *model.User, qrData string) (*dto.JoinByQRResponse, error)
	// ListCards returns the caller's active loyalty cards.
	ListCards(ctx context.Context, caller *model.User) ([]dto.WalletCard, error)
}

type walletService struct {
	memberships repository.MembershipRepository
	tokens      repository.ScanTokenRepository
	businesses  repository.BusinessRepository
	programs    repository.ProgramRepository
	cfg         *config.Config
}

func NewWalletService(
	memberships repository.MembershipRepository,
	tokens repository.ScanTokenRepository,
	businesses repository.BusinessRepository,
	programs repository.ProgramRepository,
	cfg *config.Config,
) WalletService {
	return &walletService{
		memberships: memberships,
		tokens:      tokens,
		businesses:  businesses,
		programs:    programs,
		cfg:         cfg,
	}
}

// ── IssueScanToken ────────────────────────────────────────────────────────────
// No stamp side effects: issuance only writes token rows. Supersede + create
// run in one transaction so concurrent refreshes cannot leave two live tokens.

func (s *walletService) IssueScanToken(ctx context.Context, caller *model.User, membershipID uuid.UUID) (*dto.ScanTokenResponse, error) {
	membership, err := s.memberships.FindByID(ctx, membershipID)
	// Ownership check folds into not-found so token minting never confirms
	// the existence of someone else's membership.
	if err != nil || !membership.Active || membership.UserID != caller.ID {
		return nil, apierror.E(apierror.CodeMembershipNotFound)
	}

	payload, err := newTokenPayload()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &model.ScanToken{
		MembershipID: membership.ID,
		Payload:      payload,
		Status:       model.TokenIssued,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.cfg.ScanTokenTTL()),
	}

	txErr := runTx(ctx, s.tokens.DB(), func(tx *gorm.DB) error {
		if err := s.tokens.SupersedeLive(ctx, tx, membership.ID); err != nil {
			return err
		}
		return s.tokens.Create(ctx, tx, token)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.ScanTokenResponse{
		ScanToken: token.Payload,
		ExpiresAt: token.ExpiresAt.Unix(),
	}, nil
}

// newTokenPayload returns 192 bits of crypto randomness, base64url encoded.
func newTokenPayload() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ── Join ──────────────────────────────────────────────────────────────────────

func (s *walletService) Join(ctx context.Context, caller *model.User, qrData string) (*dto.JoinByQRResponse, error) {
	externalID, ok := strings.CutPrefix(qrData, BusinessQRPrefix)
	if !ok || externalID == "" {
		return nil, apierror.E(apierror.CodeInvalidQR)
	}

	business, err := s.businesses.FindByExternalID(ctx, externalID)
	if err != nil || !business.Active {
		return nil, apierror.E(apierror.CodeBusinessNotFound)
	}

	program, err := s.programs.FindActiveByBusiness(ctx, business.ID)
	if err != nil {
		return nil, apierror.E(apierror.CodeProgramNotFound)
	}

	if existing, err := s.memberships.FindByUserAndProgram(ctx, caller.ID, program.ID); err == nil {
		if !existing.Active {
			existing.Active = true
			if err := s.memberships.UpdateTx(ctx, nil, existing); err != nil {
				return nil, err
			}
		}
		return &dto.JoinByQRResponse{
			MembershipID:   existing.ID.String(),
			BusinessID:     business.ID.String(),
			ProgramID:      program.ID.String(),
			AlreadyExisted: true,
		}, nil
	}

	membership := &model.Membership{
		UserID:    caller.ID,
		ProgramID: program.ID,
		Active:    true,
	}
	if err := s.memberships.Create(ctx, nil, membership); err != nil {
		// Concurrent double-tap: the unique (user, program) index wins the
		// race; report the surviving membership.
		if existing, findErr := s.memberships.FindByUserAndProgram(ctx, caller.ID, program.ID); findErr == nil {
			return &dto.JoinByQRResponse{
				MembershipID:   existing.ID.String(),
				BusinessID:     business.ID.String(),
				ProgramID:      program.ID.String(),
				AlreadyExisted: true,
			}, nil
		}
		return nil, err
	}

	return &dto.JoinByQRResponse{
		MembershipID:   membership.ID.String(),
		BusinessID:     business.ID.String(),
		ProgramID:      program.ID.String(),
		AlreadyExisted: false,
	}, nil
}

// ── ListCards ─────────────────────────────────────────────────────────────────

func (s *walletService) ListCards(ctx context.Context, caller *model.User) ([]dto.WalletCard, error) {
	memberships, err := s.memberships.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	cards := make([]dto.WalletCard, 0, len(memberships))
	for _, m := range memberships {
		if m.Program == nil || !m.Program.Active {
			continue
		}
		businessName := ""
		if b, err := s.businesses.FindByID(ctx, m.Program.BusinessID); err == nil {
			businessName = b.DisplayName
		}
		cards = append(cards, dto.WalletCard{
			MembershipID:  m.ID.String(),
			BusinessName:  businessName,
			ProgramID:     m.ProgramID.String(),
			ProgramTitle:  m.Program.Title,
			RewardName:    m.Program.RewardName,
			StampIcon:     m.Program.StampIcon,
			CurrentStamps: m.CurrentStamps,
			MaxStamps:     m.Program.MaxStamps,
			CanRedeemNow:  m.CanRedeem(m.Program.MaxStamps),
		})
	}
	return cards, nil
}
