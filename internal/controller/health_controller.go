package controller

import (
	"acaia_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	// DB is nil when the in-memory store is active.
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary Liveness probe
// @Description Reports the health of the active datastore
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	store := "memory"
	if c.DB != nil {
		store = "mysql"
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": store,
		},
	})
}

// @Summary API overview
// @Description Lists the available endpoint groups
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /api [get]
func (c *HealthController) APIInfo(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"name":    "AcAIA API",
		"version": "v1",
		"endpoints": gin.H{
			"auth":     "/api/v1/auth",
			"chat":     "/api/v1/chat",
			"problems": "/api/v1/problems",
			"exams":    "/api/v1/exams",
			"career":   "/api/v1/career",
			"health":   "/health",
		},
	})
}
