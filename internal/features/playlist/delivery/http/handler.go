package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"broadcast-tool-backend/internal/common/middleware"
	"broadcast-tool-backend/internal/features/playlist/models"
	"broadcast-tool-backend/internal/features/playlist/service"
	usermodels "broadcast-tool-backend/internal/features/user/models"
)

type PlaylistHandler struct {
	service service.PlaylistService
}

func NewPlaylistHandler(service service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// RegisterRoutes mounts playlist management. Reads are available to every
// authenticated account; writes need the operator role.
func (h *PlaylistHandler) RegisterRoutes(router *gin.RouterGroup) {
	playlist := router.Group("/playlist")
	{
		playlist.GET("", h.getPlaylist)
	}

	editors := router.Group("/playlist")
	editors.Use(middleware.RequireRole(usermodels.RoleOperator))
	{
		editors.POST("/tracks", h.addTrack)
		editors.DELETE("/tracks/:position", h.removeTrack)
		editors.PUT("/tracks/move", h.moveTrack)
		editors.POST("/shuffle", h.shuffle)
		editors.PUT("", h.replace)
		editors.DELETE("", h.clear)
	}
}

// @Summary Get playlist
// @Description Return the shared playlist file contents with positions
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Playlist "Playlist"
// @Router /playlist [get]
func (h *PlaylistHandler) getPlaylist(c *gin.Context) {
	playlist, err := h.service.GetPlaylist(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Add track
// @Description Append a track, or insert it at a position (operator or admin)
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param track body models.AddTrackRequest true "Track to add"
// @Success 200 {object} models.Playlist "Updated playlist"
// @Failure 400 {object} middleware.ErrorResponse "Invalid track URL"
// @Failure 422 {object} middleware.ErrorResponse "Playlist full"
// @Router /playlist/tracks [post]
func (h *PlaylistHandler) addTrack(c *gin.Context) {
	var req models.AddTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := h.service.AddTrack(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Remove track
// @Description Remove the track at a position (operator or admin)
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param position path int true "Track position"
// @Success 200 {object} models.Playlist "Updated playlist"
// @Failure 404 {object} middleware.ErrorResponse "No track at position"
// @Router /playlist/tracks/{position} [delete]
func (h *PlaylistHandler) removeTrack(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid position format"})
		return
	}

	playlist, err := h.service.RemoveTrack(c.Request.Context(), position)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Move track
// @Description Move a track between positions (operator or admin)
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param move body models.MoveTrackRequest true "Source and target positions"
// @Success 200 {object} models.Playlist "Updated playlist"
// @Failure 404 {object} middleware.ErrorResponse "No track at source position"
// @Router /playlist/tracks/move [put]
func (h *PlaylistHandler) moveTrack(c *gin.Context) {
	var req models.MoveTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := h.service.MoveTrack(c.Request.Context(), req.From, req.To)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Shuffle playlist
// @Description Randomly reorder the playlist (operator or admin)
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Playlist "Shuffled playlist"
// @Router /playlist/shuffle [post]
func (h *PlaylistHandler) shuffle(c *gin.Context) {
	playlist, err := h.service.Shuffle(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Replace playlist
// @Description Replace the whole playlist atomically (operator or admin)
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlist body models.ReplaceRequest true "New track list"
// @Success 200 {object} models.Playlist "New playlist"
// @Failure 400 {object} middleware.ErrorResponse "Invalid track URL"
// @Router /playlist [put]
func (h *PlaylistHandler) replace(c *gin.Context) {
	var req models.ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := h.service.Replace(c.Request.Context(), req.URLs)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// @Summary Clear playlist
// @Description Remove every track (operator or admin)
// @Tags playlist
// @Security BearerAuth
// @Success 204 "Cleared"
// @Router /playlist [delete]
func (h *PlaylistHandler) clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
