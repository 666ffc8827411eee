package handler

import (
	"net/http"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves the customer-facing wallet: cards, join, token minting.
type WalletHandler struct {
	identity service.IdentityResolver
	wallet   service.WalletService
}

func NewWalletHandler(identity service.IdentityResolver, wallet service.WalletService) *WalletHandler {
	return &WalletHandler{identity: identity, wallet: wallet}
}

// ListCards godoc
// @Summary      List the caller's loyalty cards
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.WalletCard
// @Failure      401 {object} apierror.APIError
// @Router       /v1/wallet [get]
func (h *WalletHandler) ListCards(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	cards, err := h.wallet.ListCards(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Join godoc
// @Summary      Join a loyalty program via a scanned business QR
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.JoinByQRRequest true "Scanned QR contents"
// @Success      200 {object} dto.JoinByQRResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/wallet/join [post]
func (h *WalletHandler) Join(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	var req dto.JoinByQRRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.wallet.Join(c.Request.Context(), user, req.QRData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IssueToken godoc
// @Summary      Mint a fresh scan token for one of the caller's memberships
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Membership ID"
// @Success      201 {object} dto.ScanTokenResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/wallet/memberships/{id}/token [post]
func (h *WalletHandler) IssueToken(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	membershipID, ok := pathUUID(c, "id", apierror.CodeMembershipNotFound)
	if !ok {
		return
	}
	resp, err := h.wallet.IssueScanToken(c.Request.Context(), user, membershipID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
