// Health endpoints: liveness, readiness, and a database connectivity probe.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atelierhq/go-studio-backend/internal/http/middleware"
	"github.com/atelierhq/go-studio-backend/internal/repo"
)

// HealthHandlers serves the health probes. Liveness and readiness are cheap
// and dependency-free; the DB probe actually touches the database.
type HealthHandlers struct {
	DB *gorm.DB
}

// Health reports process liveness.
// GET /health
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness to accept traffic.
// GET /health/ready
func (h *HealthHandlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// HealthDB verifies database connectivity. Failures return 503 so load
// balancers can rotate the instance out; the driver error goes to logs, not
// the response.
// GET /health/db
func (h *HealthHandlers) HealthDB(c *gin.Context) {
	if err := repo.Ping(h.DB); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("health.db_check_failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "database",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "database",
	})
}
