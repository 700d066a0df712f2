package api

import (
	"errors"
	"net/http"

	"TeamNewsSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// JobHandler 任务触发接口（fire-and-forget：立即返回started，结果看日志）
type JobHandler struct {
	runner *service.JobRunner
	logger *logrus.Logger
}

func NewJobHandler(runner *service.JobRunner, logger *logrus.Logger) *JobHandler {
	return &JobHandler{runner: runner, logger: logger}
}

// TriggerJob 触发命名任务
// GET /api/jobs/:name （name: ingest-associate/process-feeds/archive/daily/hourly）
func (h *JobHandler) TriggerJob(c *gin.Context) {
	name := c.Param("name")

	handle, err := h.runner.RunAsync(name)
	if errors.Is(err, service.ErrJobUnknown) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, service.ErrJobRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Errorf("触发任务%s失败", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":     "started",
		"job":        handle.Job,
		"job_id":     handle.JobID,
		"started_at": handle.StartedAt,
	})
}
