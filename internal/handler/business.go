package handler

import (
	"net/http"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	identity   service.IdentityResolver
	businesses service.BusinessService
	programs   service.ProgramService
	scans      service.ScanService
}

func NewBusinessHandler(
	identity service.IdentityResolver,
	businesses service.BusinessService,
	programs service.ProgramService,
	scans service.ScanService,
) *BusinessHandler {
	return &BusinessHandler{identity: identity, businesses: businesses, programs: programs, scans: scans}
}

// Create godoc
// @Summary      Create a business owned by the caller
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBusinessRequest true "Business data"
// @Success      201 {object} dto.BusinessResponse
// @Router       /v1/businesses [post]
func (h *BusinessHandler) Create(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	var req dto.CreateBusinessRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.businesses.Create(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMine godoc
// @Summary      List businesses where the caller is staff
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.BusinessResponse
// @Router       /v1/businesses/mine [get]
func (h *BusinessHandler) ListMine(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	resp, err := h.businesses.ListMine(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch one business, including its join QR payload
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Success      200 {object} dto.BusinessResponse
// @Failure      403 {object} apierror.APIError
// @Router       /v1/businesses/{id} [get]
func (h *BusinessHandler) Get(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	resp, err := h.businesses.Get(c.Request.Context(), user, businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetActive godoc
// @Summary      Deactivate or reactivate a business (owner only)
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        request body dto.SetActiveRequest true "Desired state"
// @Success      204
// @Router       /v1/businesses/{id}/active [put]
func (h *BusinessHandler) SetActive(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.businesses.SetActive(c.Request.Context(), user, businessID, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InviteStaff godoc
// @Summary      Add a registered user as staff (owner only)
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        request body dto.InviteStaffRequest true "Invitee"
// @Success      201 {object} dto.StaffResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/businesses/{id}/staff [post]
func (h *BusinessHandler) InviteStaff(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	var req dto.InviteStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.businesses.InviteStaff(c.Request.Context(), user, businessID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListStaff godoc
// @Summary      List a business's staff (owner only)
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Success      200 {array} dto.StaffResponse
// @Router       /v1/businesses/{id}/staff [get]
func (h *BusinessHandler) ListStaff(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	resp, err := h.businesses.ListStaff(c.Request.Context(), user, businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveStaff godoc
// @Summary      Deactivate a staff member (owner only)
// @Tags         businesses
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        userId path string true "Staff user ID"
// @Success      204
// @Router       /v1/businesses/{id}/staff/{userId} [delete]
func (h *BusinessHandler) RemoveStaff(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	staffUserID, ok := pathUUID(c, "userId", apierror.CodeUserNotFound)
	if !ok {
		return
	}
	if err := h.businesses.RemoveStaff(c.Request.Context(), user, businessID, staffUserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEvents godoc
// @Summary      Page through a business's stamp ledger
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size (max 100)"
// @Success      200 {object} dto.StampEventListResponse
// @Router       /v1/businesses/{id}/events [get]
func (h *BusinessHandler) ListEvents(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	var filter dto.StampEventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(map[string]string{"query": "malformed parameters"}))
		return
	}
	resp, err := h.scans.ListEvents(c.Request.Context(), user, businessID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
