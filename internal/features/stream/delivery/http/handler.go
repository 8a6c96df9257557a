package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"broadcast-tool-backend/internal/common/middleware"
	"broadcast-tool-backend/internal/features/stream/delivery/ws"
	"broadcast-tool-backend/internal/features/stream/service"
	usermodels "broadcast-tool-backend/internal/features/user/models"
)

const maxLogLimit = 1000

type StreamHandler struct {
	service service.StreamService
	logHub  *ws.LogHub
}

func NewStreamHandler(service service.StreamService, logHub *ws.LogHub) *StreamHandler {
	return &StreamHandler{
		service: service,
		logHub:  logHub,
	}
}

// RegisterRoutes mounts stream control and observation. Control needs the
// operator role; observation is open to every authenticated account so the
// user dashboard can show broadcast health.
func (h *StreamHandler) RegisterRoutes(router *gin.RouterGroup) {
	stream := router.Group("/admin/stream")
	{
		stream.GET("/status", h.getStatus)
		stream.GET("/metrics", h.getMetrics)
	}

	control := router.Group("/admin/stream")
	control.Use(middleware.RequireRole(usermodels.RoleOperator))
	{
		control.POST("/start", h.start)
		control.POST("/stop", h.stop)
		control.POST("/restart", h.restart)
		control.GET("/logs", h.getLogs)
		control.GET("/logs/ws", h.tailLogs)
	}
}

// @Summary Start stream
// @Description Start the broadcast (operator or admin)
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ControlResult "Command result"
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Failure 409 {object} middleware.ErrorResponse "Stream already running"
// @Router /admin/stream/start [post]
func (h *StreamHandler) start(c *gin.Context) {
	result, err := h.service.Start(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Stop stream
// @Description Stop the broadcast (operator or admin)
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ControlResult "Command result"
// @Failure 409 {object} middleware.ErrorResponse "Stream already stopped"
// @Router /admin/stream/stop [post]
func (h *StreamHandler) stop(c *gin.Context) {
	result, err := h.service.Stop(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Restart stream
// @Description Restart the broadcast session (operator or admin)
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ControlResult "Command result"
// @Failure 409 {object} middleware.ErrorResponse "Concurrent control operation or stream stopped"
// @Router /admin/stream/restart [post]
func (h *StreamHandler) restart(c *gin.Context) {
	result, err := h.service.Restart(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Stream status
// @Description Current broadcast state mirrored from the streamer
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Status "Status"
// @Router /admin/stream/status [get]
func (h *StreamHandler) getStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// @Summary Stream metrics
// @Description Streamer resource metrics; stale=true means the heartbeat expired
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Metrics "Metrics"
// @Router /admin/stream/metrics [get]
func (h *StreamHandler) getMetrics(c *gin.Context) {
	metrics, err := h.service.GetMetrics(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// @Summary Stream logs
// @Description Most recent streamer log entries, newest first
// @Tags stream
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {array} models.LogEntry "Log entries"
// @Router /admin/stream/logs [get]
func (h *StreamHandler) getLogs(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxLogLimit {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	logs, err := h.service.GetLogs(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// @Summary Tail stream logs
// @Description WebSocket endpoint pushing new streamer log entries as they appear
// @Tags stream
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Router /admin/stream/logs/ws [get]
func (h *StreamHandler) tailLogs(c *gin.Context) {
	h.logHub.ServeWS(c.Writer, c.Request)
}
