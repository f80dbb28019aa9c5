// Package cron exposes the scheduler's operational surface over HTTP:
// manual job triggering, execution history, statistics and health. A
// gateway in front of these routes handles authentication.
package cron

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/api/dto"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/scheduler"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// LifecycleCronHandler handles lifecycle job related cron endpoints.
type LifecycleCronHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewLifecycleCronHandler creates a new lifecycle cron handler.
func NewLifecycleCronHandler(s *scheduler.Scheduler, log *logger.Logger) *LifecycleCronHandler {
	return &LifecycleCronHandler{scheduler: s, logger: log}
}

// RegisterRoutes mounts the cron endpoints on the given router group.
func (h *LifecycleCronHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:name/trigger", h.TriggerJob)
	rg.GET("/jobs/history", h.GetHistory)
	rg.GET("/jobs/statistics", h.GetStatistics)
	rg.GET("/health", h.Health)
}

// TriggerJob runs one named job outside its schedule.
func (h *LifecycleCronHandler) TriggerJob(c *gin.Context) {
	req := dto.TriggerJobRequest{JobName: c.Param("name")}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ierr.NewErrorResponse(err))
			return
		}
		req.JobName = c.Param("name")
	}
	if err := req.Validate(); err != nil {
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), req.Timeout())
	defer cancel()

	known, err := h.scheduler.TriggerManually(ctx, types.JobName(req.JobName))
	if !known {
		notFound := ierr.NewErrorf("job %q is not registered", req.JobName).
			Mark(ierr.ErrNotFound)
		c.JSON(ierr.HTTPStatusFromErr(notFound), ierr.NewErrorResponse(notFound))
		return
	}

	resp := dto.TriggerJobResponse{JobName: req.JobName, Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
		h.logger.Warnw("manual trigger finished with error",
			"job", req.JobName,
			"error", err)
		c.JSON(ierr.HTTPStatusFromErr(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistory lists recent job executions, optionally filtered by job name.
func (h *LifecycleCronHandler) GetHistory(c *gin.Context) {
	jobName := types.JobName(c.Query("job_name"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, err := h.scheduler.ListHistory(c.Request.Context(), jobName, limit)
	if err != nil {
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, dto.JobHistoryResponse{Items: items, Count: len(items)})
}

// GetStatistics aggregates job executions over a trailing window.
func (h *LifecycleCronHandler) GetStatistics(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "7"))

	items, err := h.scheduler.Statistics(c.Request.Context(), windowDays)
	if err != nil {
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, dto.JobStatisticsResponse{WindowDays: windowDays, Items: items})
}

// Health reports the trigger registry state.
func (h *LifecycleCronHandler) Health(c *gin.Context) {
	health := h.scheduler.HealthCheck()
	status := http.StatusOK
	if health.Status == types.HealthStateUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
