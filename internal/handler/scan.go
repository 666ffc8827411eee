package handler

import (
	"net/http"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ScanHandler serves the staff-facing side of the protocol.
type ScanHandler struct {
	identity service.IdentityResolver
	scans    service.ScanService
}

func NewScanHandler(identity service.IdentityResolver, scans service.ScanService) *ScanHandler {
	return &ScanHandler{identity: identity, scans: scans}
}

// Resolve godoc
// @Summary      Decode a customer's scanned QR token
// @Description  Read-only: the token is not consumed, so a flaky connection
// @Description  can safely retry the same scan.
// @Tags         scan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ResolveScanRequest true "Scan context"
// @Success      200 {object} dto.ResolveScanResponse
// @Failure      403 {object} apierror.APIError
// @Failure      410 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/scan/resolve [post]
func (h *ScanHandler) Resolve(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	var req dto.ResolveScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.scans.Resolve(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddStamp godoc
// @Summary      Grant one stamp to a customer
// @Tags         scan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddStampRequest true "Stamp target"
// @Success      200 {object} dto.AddStampResponse
// @Failure      403 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Failure      429 {object} apierror.APIError
// @Router       /v1/scan/stamp [post]
func (h *ScanHandler) AddStamp(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	var req dto.AddStampRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.scans.AddStamp(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RedeemReward godoc
// @Summary      Redeem a full card and reset its stamps
// @Tags         scan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RedeemRewardRequest true "Redemption target"
// @Success      200 {object} dto.RedeemRewardResponse
// @Failure      403 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/scan/redeem [post]
func (h *ScanHandler) RedeemReward(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	var req dto.RedeemRewardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.scans.RedeemReward(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
