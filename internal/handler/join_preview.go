package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/dto"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const previewCacheTTL = 5 * time.Minute

// JoinPreviewHandler serves the unauthenticated program preview behind a join
// QR. Results are cached in Redis: posters get scanned in bursts and the
// underlying rows change rarely.
type JoinPreviewHandler struct {
	businesses repository.BusinessRepository
	programs   repository.ProgramRepository
	rdb        *redis.Client
}

func NewJoinPreviewHandler(
	businesses repository.BusinessRepository,
	programs repository.ProgramRepository,
	rdb *redis.Client,
) *JoinPreviewHandler {
	return &JoinPreviewHandler{businesses: businesses, programs: programs, rdb: rdb}
}

// Preview godoc
// @Summary      Public program preview for a printed join QR
// @Tags         wallet
// @Produce      json
// @Param        externalId path string true "Business external ID from the QR"
// @Success      200 {object} dto.JoinPreviewResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/join/{externalId}/preview [get]
func (h *JoinPreviewHandler) Preview(c *gin.Context) {
	externalID := c.Param("externalId")
	ctx := c.Request.Context()
	cacheKey := "preview:" + externalID

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.JoinPreviewResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	business, err := h.businesses.FindByExternalID(ctx, externalID)
	if err != nil || !business.Active {
		respondError(c, apierror.E(apierror.CodeBusinessNotFound))
		return
	}
	program, err := h.programs.FindActiveByBusiness(ctx, business.ID)
	if err != nil {
		respondError(c, apierror.E(apierror.CodeProgramNotFound))
		return
	}

	resp := dto.JoinPreviewResponse{
		BusinessName: business.DisplayName,
		ProgramTitle: program.Title,
		RewardName:   program.RewardName,
		MaxStamps:    program.MaxStamps,
		StampIcon:    program.StampIcon,
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(ctx, cacheKey, raw, previewCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("could not cache join preview")
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
