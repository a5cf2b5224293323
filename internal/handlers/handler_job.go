package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/dto"
	"github.com/SscSPs/orders_sync_app/internal/jobs"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// JobRunner runs jobs of the job table on demand.
type JobRunner interface {
	Jobs() []string
	RunOnce(ctx context.Context, name string) (*jobs.Run, error)
}

var _ JobRunner = (*jobs.Scheduler)(nil)

type jobHandler struct {
	runner JobRunner
}

// RegisterJobRoutes registers the job management routes.
func RegisterJobRoutes(rg *gin.RouterGroup, runner JobRunner) {
	h := &jobHandler{runner: runner}

	jobRoutes := rg.Group("/jobs")
	{
		jobRoutes.GET("", h.listJobs)
		jobRoutes.POST("/:name/run", h.runJob)
	}
}

// listJobs godoc
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} dto.JobListResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: h.runner.Jobs()})
}

// runJob godoc
// @Summary Run a job now
// @Description Runs the job synchronously, plus its follow-up job if configured, and returns its result.
// @Tags jobs
// @Produce json
// @Param name path string true "Job name" Enums(reconcile_orders, send_notifications)
// @Success 200 {object} dto.JobRunResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job already running"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /jobs/{name}/run [post]
func (h *jobHandler) runJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	run, err := h.runner.RunOnce(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Job not found"})
		case errors.Is(err, apperrors.ErrJobAlreadyRunning):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Job already running"})
		default:
			logger.Error("Manual job run failed", slog.String("job", name), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Job failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.JobRunResponse{
		Job:       run.Job,
		StartedAt: run.StartedAt,
		Duration:  run.Duration,
		Result:    run.Result,
	})
}
