package handler

import (
	"net/http"
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	rdb     *redis.Client
	breaker *infra.CircuitBreaker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, breaker: breaker}
}

// Check godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	out := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		out["status"] = "degraded"
		out["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		out["database"] = "up"
	}

	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		out["status"] = "degraded"
		out["redis"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		out["redis"] = "up"
	}

	out["mailer_breaker"] = h.breaker.State().String()

	c.JSON(status, out)
}
