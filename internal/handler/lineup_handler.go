package handler

import (
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/middleware"
	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/gin-gonic/gin"
)

type LineupHandler struct {
	lineupService *service.LineupService
}

func NewLineupHandler(lineupService *service.LineupService) *LineupHandler {
	return &LineupHandler{lineupService: lineupService}
}

// List returns the caller's lineups as a bare array.
func (h *LineupHandler) List(c *gin.Context) {
	lineups, err := h.lineupService.ListOwn(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to get lineups")
		return
	}
	c.JSON(http.StatusOK, lineups)
}

// Get is mounted behind OptionalAuth so owners can see their private lineup.
func (h *LineupHandler) Get(c *gin.Context) {
	lineup, err := h.lineupService.GetOne(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to get lineup")
		return
	}
	c.JSON(http.StatusOK, lineup)
}

func (h *LineupHandler) Create(c *gin.Context) {
	var input service.LineupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	lineup, err := h.lineupService.Create(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err, "Failed to create lineup")
		return
	}
	c.JSON(http.StatusCreated, lineup)
}

func (h *LineupHandler) Update(c *gin.Context) {
	var input service.LineupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	lineup, err := h.lineupService.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err, "Failed to update lineup")
		return
	}
	c.JSON(http.StatusOK, lineup)
}

func (h *LineupHandler) Delete(c *gin.Context) {
	if err := h.lineupService.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err, "Failed to delete lineup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
