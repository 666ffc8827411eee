package handler

import (
	"net/http"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgramHandler struct {
	identity service.IdentityResolver
	programs service.ProgramService
}

func NewProgramHandler(identity service.IdentityResolver, programs service.ProgramService) *ProgramHandler {
	return &ProgramHandler{identity: identity, programs: programs}
}

// Create godoc
// @Summary      Create a loyalty program (owner only)
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        request body dto.CreateProgramRequest true "Program data"
// @Success      201 {object} dto.ProgramResponse
// @Router       /v1/businesses/{id}/programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	var req dto.CreateProgramRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.programs.Create(c.Request.Context(), user, businessID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List a business's programs
// @Tags         programs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Success      200 {array} dto.ProgramResponse
// @Router       /v1/businesses/{id}/programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	resp, err := h.programs.List(c.Request.Context(), user, businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a program's display fields (owner only)
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        programId path string true "Program ID"
// @Param        request body dto.UpdateProgramRequest true "Changes"
// @Success      200 {object} dto.ProgramResponse
// @Router       /v1/businesses/{id}/programs/{programId} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	programID, ok := pathUUID(c, "programId", apierror.CodeProgramNotFound)
	if !ok {
		return
	}
	var req dto.UpdateProgramRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.programs.Update(c.Request.Context(), user, businessID, programID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetActive godoc
// @Summary      Deactivate or reactivate a program (owner only)
// @Tags         programs
// @Accept       json
// @Security     BearerAuth
// @Param        id path string true "Business ID"
// @Param        programId path string true "Program ID"
// @Param        request body dto.SetActiveRequest true "Desired state"
// @Success      204
// @Router       /v1/businesses/{id}/programs/{programId}/active [put]
func (h *ProgramHandler) SetActive(c *gin.Context) {
	user := currentUser(c, h.identity)
	if user == nil {
		return
	}
	businessID, ok := pathUUID(c, "id", apierror.CodeBusinessNotFound)
	if !ok {
		return
	}
	programID, ok := pathUUID(c, "programId", apierror.CodeProgramNotFound)
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.programs.SetActive(c.Request.Context(), user, businessID, programID, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
