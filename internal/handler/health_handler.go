package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports ok with a timestamp, or 503 when the store does not answer a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := h.ping(c.Request.Context()); err != nil {
		logger.Log.Error("Health check database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unavailable",
			"timestamp": now,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": now,
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
