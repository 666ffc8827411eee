package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/config"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (r *stubUserRepo) FindBySubject(_ context.Context, subject string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Subject == subject && u.Active {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Active = false
		return nil
	}
	return errNotFound
}

type stubBusinessRepo struct {
	businesses map[uuid.UUID]*model.Business
}

func newStubBusinessRepo() *stubBusinessRepo {
	return &stubBusinessRepo{businesses: make(map[uuid.UUID]*model.Business)}
}

func (r *stubBusinessRepo) Create(_ context.Context, _ *gorm.DB, b *model.Business) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.businesses[b.ID] = b
	return nil
}

func (r *stubBusinessRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	if b, ok := r.businesses[id]; ok {
		return b, nil
	}
	return nil, errNotFound
}

func (r *stubBusinessRepo) FindByExternalID(_ context.Context, externalID string) (*model.Business, error) {
	for _, b := range r.businesses {
		if b.ExternalID == externalID {
			return b, nil
		}
	}
	return nil, errNotFound
}

func (r *stubBusinessRepo) ListByStaffUser(_ context.Context, _ uuid.UUID) ([]model.Business, error) {
	out := make([]model.Business, 0, len(r.businesses))
	for _, b := range r.businesses {
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubBusinessRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if b, ok := r.businesses[id]; ok {
		b.Active = active
		return nil
	}
	return errNotFound
}

func (r *stubBusinessRepo) DB() *gorm.DB { return nil }

type stubStaffRepo struct {
	links []*model.BusinessStaff
}

func (r *stubStaffRepo) Create(_ context.Context, _ *gorm.DB, s *model.BusinessStaff) error {
	for _, l := range r.links {
		if l.BusinessID == s.BusinessID && l.UserID == s.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.links = append(r.links, s)
	return nil
}

func (r *stubStaffRepo) FindActive(_ context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error) {
	for _, l := range r.links {
		if l.BusinessID == businessID && l.UserID == userID && l.Active {
			return l, nil
		}
	}
	return nil, errNotFound
}

func (r *stubStaffRepo) Find(_ context.Context, businessID, userID uuid.UUID) (*model.BusinessStaff, error) {
	for _, l := range r.links {
		if l.BusinessID == businessID && l.UserID == userID {
			return l, nil
		}
	}
	return nil, errNotFound
}

func (r *stubStaffRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]model.BusinessStaff, error) {
	var out []model.BusinessStaff
	for _, l := range r.links {
		if l.BusinessID == businessID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubStaffRepo) Update(_ context.Context, s *model.BusinessStaff) error {
	for i, l := range r.links {
		if l.ID == s.ID {
			r.links[i] = s
			return nil
		}
	}
	return errNotFound
}

func (r *stubStaffRepo) SetActive(_ context.Context, businessID, userID uuid.UUID, active bool) error {
	for _, l := range r.links {
		if l.BusinessID == businessID && l.UserID == userID {
			l.Active = active
			return nil
		}
	}
	return errNotFound
}

type stubProgramRepo struct {
	programs map[uuid.UUID]*model.LoyaltyProgram
}

func newStubProgramRepo() *stubProgramRepo {
	return &stubProgramRepo{programs: make(map[uuid.UUID]*model.LoyaltyProgram)}
}

func (r *stubProgramRepo) Create(_ context.Context, p *model.LoyaltyProgram) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.programs[p.ID] = p
	return nil
}

func (r *stubProgramRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LoyaltyProgram, error) {
	if p, ok := r.programs[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (r *stubProgramRepo) FindActiveByBusiness(_ context.Context, businessID uuid.UUID) (*model.LoyaltyProgram, error) {
	for _, p := range r.programs {
		if p.BusinessID == businessID && p.Active {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProgramRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]model.LoyaltyProgram, error) {
	var out []model.LoyaltyProgram
	for _, p := range r.programs {
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProgramRepo) Update(_ context.Context, p *model.LoyaltyProgram) error {
	r.programs[p.ID] = p
	return nil
}

func (r *stubProgramRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if p, ok := r.programs[id]; ok {
		p.Active = active
		return nil
	}
	return errNotFound
}

type stubMembershipRepo struct {
	mu          sync.Mutex
	memberships map[uuid.UUID]*model.Membership
	programs    *stubProgramRepo
}

func newStubMembershipRepo(programs *stubProgramRepo) *stubMembershipRepo {
	return &stubMembershipRepo{
		memberships: make(map[uuid.UUID]*model.Membership),
		programs:    programs,
	}
}

func (r *stubMembershipRepo) Create(_ context.Context, _ *gorm.DB, m *model.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.memberships {
		if existing.UserID == m.UserID && existing.ProgramID == m.ProgramID {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.memberships[m.ID] = m
	return nil
}

func (r *stubMembershipRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.memberships[id]; ok {
		r.attachProgram(m)
		return m, nil
	}
	return nil, errNotFound
}

func (r *stubMembershipRepo) FindByUserAndProgram(_ context.Context, userID, programID uuid.UUID) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(userID, programID)
}

func (r *stubMembershipRepo) FindForUpdateTx(_ context.Context, _ *gorm.DB, userID, programID uuid.UUID) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(userID, programID)
}

func (r *stubMembershipRepo) findLocked(userID, programID uuid.UUID) (*model.Membership, error) {
	for _, m := range r.memberships {
		if m.UserID == userID && m.ProgramID == programID {
			return m, nil
		}
	}
	return nil, errNotFound
}

func (r *stubMembershipRepo) UpdateTx(_ context.Context, _ *gorm.DB, m *model.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memberships[m.ID] = m
	return nil
}

func (r *stubMembershipRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Membership
	for _, m := range r.memberships {
		if m.UserID == userID && m.Active {
			r.attachProgram(m)
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) attachProgram(m *model.Membership) {
	if r.programs == nil {
		return
	}
	if p, ok := r.programs.programs[m.ProgramID]; ok {
		m.Program = p
	}
}

func (r *stubMembershipRepo) DB() *gorm.DB { return nil }

type stubScanTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.ScanToken
	repo   *stubMembershipRepo
}

func newStubScanTokenRepo(memberships *stubMembershipRepo) *stubScanTokenRepo {
	return &stubScanTokenRepo{tokens: make(map[string]*model.ScanToken), repo: memberships}
}

func (r *stubScanTokenRepo) Create(_ context.Context, _ *gorm.DB, t *model.ScanToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tokens[t.Payload] = t
	return nil
}

func (r *stubScanTokenRepo) FindByPayload(_ context.Context, payload string) (*model.ScanToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[payload]
	if !ok {
		return nil, errNotFound
	}
	if r.repo != nil {
		if m, ok := r.repo.memberships[t.MembershipID]; ok {
			t.Membership = m
		}
	}
	return t, nil
}

func (r *stubScanTokenRepo) SupersedeLive(_ context.Context, _ *gorm.DB, membershipID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.MembershipID == membershipID && t.Status == model.TokenIssued {
			t.Status = model.TokenSuperseded
		}
	}
	return nil
}

func (r *stubScanTokenRepo) ConsumeLiveTx(_ context.Context, _ *gorm.DB, membershipID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.MembershipID == membershipID && t.Status == model.TokenIssued {
			t.Status = model.TokenConsumed
			consumed := at
			t.ConsumedAt = &consumed
		}
	}
	return nil
}

func (r *stubScanTokenRepo) DB() *gorm.DB { return nil }

type stubStampEventRepo struct {
	mu     sync.Mutex
	events []*model.StampEvent
}

func (r *stubStampEventRepo) CreateTx(_ context.Context, _ *gorm.DB, e *model.StampEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.events = append(r.events, e)
	return nil
}

func (r *stubStampEventRepo) FindLatestTx(_ context.Context, _ *gorm.DB, businessID, customerID uuid.UUID) (*model.StampEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.StampEvent
	for _, e := range r.events {
		if e.BusinessID == businessID && e.CustomerUserID == customerID {
			if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
				latest = e
			}
		}
	}
	if latest == nil {
		return nil, errNotFound
	}
	return latest, nil
}

func (r *stubStampEventRepo) ListByBusiness(_ context.Context, businessID uuid.UUID, filter dto.StampEventFilter) ([]model.StampEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StampEvent
	for _, e := range r.events {
		if e.BusinessID == businessID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture assembles a working in-memory world: one business with an active
// 10-stamp program, an owner, a staff member and a customer already enrolled.
type fixture struct {
	users       *stubUserRepo
	businesses  *stubBusinessRepo
	staff       *stubStaffRepo
	programs    *stubProgramRepo
	memberships *stubMembershipRepo
	tokens      *stubScanTokenRepo
	events      *stubStampEventRepo
	cfg         *config.Config

	owner      *model.User
	staffUser  *model.User
	customer   *model.User
	business   *model.Business
	program    *model.LoyaltyProgram
	membership *model.Membership
}

func newFixture() *fixture {
	f := &fixture{
		users:      newStubUserRepo(),
		businesses: newStubBusinessRepo(),
		staff:      &stubStaffRepo{},
		programs:   newStubProgramRepo(),
		events:     &stubStampEventRepo{},
		cfg: &config.Config{
			ScanTokenTTLSeconds:  90,
			StampCooldownSeconds: 30,
		},
	}
	f.memberships = newStubMembershipRepo(f.programs)
	f.tokens = newStubScanTokenRepo(f.memberships)

	ctx := context.Background()

	f.owner = &model.User{Subject: "sub-owner", Email: "owner@x.test", DisplayName: "Owner", Role: "merchant", Active: true}
	f.staffUser = &model.User{Subject: "sub-staff", Email: "staff@x.test", DisplayName: "Staff", Role: "staff", Active: true}
	f.customer = &model.User{Subject: "sub-customer", Email: "customer@x.test", DisplayName: "Customer", Role: "customer", Active: true}
	_ = f.users.Create(ctx, f.owner)
	_ = f.users.Create(ctx, f.staffUser)
	_ = f.users.Create(ctx, f.customer)

	f.business = &model.Business{OwnerID: f.owner.ID, ExternalID: "ext-123", DisplayName: "Corner Cafe", Active: true}
	_ = f.businesses.Create(ctx, nil, f.business)

	_ = f.staff.Create(ctx, nil, &model.BusinessStaff{BusinessID: f.business.ID, UserID: f.owner.ID, Role: RoleOwner, Active: true})
	_ = f.staff.Create(ctx, nil, &model.BusinessStaff{BusinessID: f.business.ID, UserID: f.staffUser.ID, Role: RoleStaff, Active: true})

	f.program = &model.LoyaltyProgram{BusinessID: f.business.ID, Title: "Coffee Card", RewardName: "Free coffee", MaxStamps: 10, StampIcon: "coffee", Active: true}
	_ = f.programs.Create(ctx, f.program)

	f.membership = &model.Membership{UserID: f.customer.ID, ProgramID: f.program.ID, Active: true}
	_ = f.memberships.Create(ctx, nil, f.membership)

	return f
}

func (f *fixture) walletService() WalletService {
	return NewWalletService(f.memberships, f.tokens, f.businesses, f.programs, f.cfg)
}

func (f *fixture) scanService() ScanService {
	return NewScanService(f.users, f.businesses, f.programs, f.memberships, f.tokens, f.events, NewStaffGuard(f.staff), nil, f.cfg)
}

func (f *fixture) backdateLatestEvent(d time.Duration) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	if len(f.events.events) > 0 {
		f.events.events[len(f.events.events)-1].CreatedAt = time.Now().Add(-d)
	}
}
