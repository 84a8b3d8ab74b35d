package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/edutask-api/internal/dto"
	apierrors "github.com/yukikurage/edutask-api/internal/errors"
	"github.com/yukikurage/edutask-api/internal/services"
)

// StatisticsHandler serves the admin statistics endpoints
type StatisticsHandler struct {
	statsService *services.StatsService
}

// NewStatisticsHandler creates a new StatisticsHandler
func NewStatisticsHandler(statsService *services.StatsService) *StatisticsHandler {
	return &StatisticsHandler{
		statsService: statsService,
	}
}

// Overview returns system-wide completion totals
func (h *StatisticsHandler) Overview(c *gin.Context) {
	stats, err := h.statsService.Overview()
	if err != nil {
		log.Printf("failed to compute overview statistics: %v", err)
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewStatsDTO(*stats))
}

// Tasks returns completion figures per task
func (h *StatisticsHandler) Tasks(c *gin.Context) {
	stats, err := h.statsService.TaskStats()
	if err != nil {
		log.Printf("failed to compute task statistics: %v", err)
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskStatsDTOs(stats))
}

// Students returns completion figures per student
func (h *StatisticsHandler) Students(c *gin.Context) {
	stats, err := h.statsService.StudentStats()
	if err != nil {
		log.Printf("failed to compute student statistics: %v", err)
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentStatsDTOs(stats))
}
