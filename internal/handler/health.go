package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB, Redis and SMTP status. Only the database is required:
// without Redis receipts are not mailed and config is not cached, but the
// API keeps serving. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus}

		switch {
		case rdb == nil:
			body["redis"] = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			body["redis"] = "error"
		default:
			body["redis"] = "connected"
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueRecibos); err == nil {
				body["recibos_dlq"] = n
			}
		}

		switch {
		case mailer == nil || !mailer.Configurado():
			body["smtp"] = "disabled"
		default:
			body["smtp"] = mailer.Estado().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
