package handler

import (
	"net/http"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/middleware"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds the JSON body into req and runs struct validation.
// On failure it writes the error response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(map[string]string{"body": "malformed JSON"}))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error onto its HTTP status and canonical
// envelope. Anything outside the taxonomy is logged and reported as INTERNAL.
func respondError(c *gin.Context, err error) {
	de := apierror.FromError(err)
	if de.Code == apierror.CodeInternal {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
	}
	c.JSON(apierror.Status(de.Code), apierror.New(de.Code, de.Message))
}

// currentUser resolves the authenticated JWT subject to a User row. It aborts
// the request itself on failure and returns nil.
func currentUser(c *gin.Context, identity service.IdentityResolver) *model.User {
	claims := middleware.GetClaims(c)
	subject := ""
	if claims != nil {
		subject = claims.Subject
	}
	user, err := identity.Resolve(c.Request.Context(), subject)
	if err != nil {
		respondError(c, err)
		c.Abort()
		return nil
	}
	return user
}

// pathUUID parses a :param path segment as a uuid. A malformed id gets the
// same response as a missing resource so ids stay opaque.
func pathUUID(c *gin.Context, name string, notFound apierror.Code) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apierror.E(notFound))
		return uuid.Nil, false
	}
	return id, true
}
