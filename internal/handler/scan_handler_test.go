package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/middleware"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubIdentity struct {
	user *model.User
}

func (s *stubIdentity) Resolve(_ context.Context, subject string) (*model.User, error) {
	if s.user != nil && subject == s.user.Subject {
		return s.user, nil
	}
	if subject == "" {
		return nil, apierror.E(apierror.CodeNotAuthenticated)
	}
	return nil, apierror.E(apierror.CodeUserNotFound)
}

type stubScanService struct {
	resolveResp *dto.ResolveScanResponse
	stampResp   *dto.AddStampResponse
	err         error
}

func (s *stubScanService) Resolve(_ context.Context, _ *model.User, _ dto.ResolveScanRequest) (*dto.ResolveScanResponse, error) {
	return s.resolveResp, s.err
}

func (s *stubScanService) AddStamp(_ context.Context, _ *model.User, _ dto.AddStampRequest) (*dto.AddStampResponse, error) {
	return s.stampResp, s.err
}

func (s *stubScanService) RedeemReward(_ context.Context, _ *model.User, _ dto.RedeemRewardRequest) (*dto.RedeemRewardResponse, error) {
	return nil, s.err
}

func (s *stubScanService) ListEvents(_ context.Context, _ *model.User, _ uuid.UUID, _ dto.StampEventFilter) (*dto.StampEventListResponse, error) {
	return nil, s.err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func testUser() *model.User {
	return &model.User{ID: uuid.New(), Subject: "sub-1", Email: "s@x.test", DisplayName: "Staff", Role: "staff", Active: true}
}

func withClaims(subject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		})
	}
}

func scanRouter(identity *stubIdentity, svc *stubScanService, subject string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewScanHandler(identity, svc)
	r := gin.New()
	g := r.Group("/v1/scan")
	if subject != "" {
		g.Use(withClaims(subject))
	}
	g.POST("/resolve", h.Resolve)
	g.POST("/stamp", h.AddStamp)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validResolveBody() dto.ResolveScanRequest {
	return dto.ResolveScanRequest{
		QRData:     "tok",
		BusinessID: uuid.NewString(),
		ProgramID:  uuid.NewString(),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestResolveHandler_OK(t *testing.T) {
	user := testUser()
	svc := &stubScanService{resolveResp: &dto.ResolveScanResponse{
		CustomerUserID:      uuid.NewString(),
		CustomerDisplayName: "Customer",
		Membership:          &dto.MembershipSnapshot{CurrentStamps: 3, MaxStamps: 10},
	}}
	r := scanRouter(&stubIdentity{user: user}, svc, user.Subject)

	w := postJSON(r, "/v1/scan/resolve", validResolveBody())

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ResolveScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Customer", resp.CustomerDisplayName)
	require.NotNil(t, resp.Membership)
	assert.Equal(t, 3, resp.Membership.CurrentStamps)
}

func TestResolveHandler_ValidationFailure(t *testing.T) {
	user := testUser()
	r := scanRouter(&stubIdentity{user: user}, &stubScanService{}, user.Subject)

	w := postJSON(r, "/v1/scan/resolve", dto.ResolveScanRequest{QRData: "tok", BusinessID: "not-a-uuid"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestResolveHandler_ErrorStatusMapping(t *testing.T) {
	user := testUser()
	cases := []struct {
		code   apierror.Code
		status int
	}{
		{apierror.CodeExpiredToken, http.StatusGone},
		{apierror.CodeTokenAlreadyUsed, http.StatusConflict},
		{apierror.CodeInvalidQR, http.StatusUnprocessableEntity},
		{apierror.CodeNotAuthorized, http.StatusForbidden},
		{apierror.CodeRateLimited, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			svc := &stubScanService{err: apierror.E(tc.code)}
			r := scanRouter(&stubIdentity{user: user}, svc, user.Subject)

			w := postJSON(r, "/v1/scan/resolve", validResolveBody())

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), string(tc.code))
		})
	}
}

func TestResolveHandler_InternalErrorIsOpaque(t *testing.T) {
	user := testUser()
	svc := &stubScanService{err: assert.AnError}
	r := scanRouter(&stubIdentity{user: user}, svc, user.Subject)

	w := postJSON(r, "/v1/scan/resolve", validResolveBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestStampHandler_NoClaims(t *testing.T) {
	r := scanRouter(&stubIdentity{}, &stubScanService{}, "")

	w := postJSON(r, "/v1/scan/stamp", dto.AddStampRequest{
		BusinessID:     uuid.NewString(),
		ProgramID:      uuid.NewString(),
		CustomerUserID: uuid.NewString(),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AUTHENTICATED")
}

func TestStampHandler_UnknownSubject(t *testing.T) {
	r := scanRouter(&stubIdentity{user: testUser()}, &stubScanService{}, "sub-deleted")

	w := postJSON(r, "/v1/scan/stamp", dto.AddStampRequest{
		BusinessID:     uuid.NewString(),
		ProgramID:      uuid.NewString(),
		CustomerUserID: uuid.NewString(),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
}
