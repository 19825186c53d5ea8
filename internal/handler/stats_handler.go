package handler

import (
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Leaderboard(c *gin.Context) {
	page, err := service.ParsePage(c.Query("limit"), c.Query("offset"), service.DefaultLeaderboardSize)
	if err != nil {
		respondError(c, err, "Failed to get leaderboard")
		return
	}

	result, err := h.statsService.Leaderboard(c.Request.Context(), page)
	if err != nil {
		respondError(c, err, "Failed to get leaderboard")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StatsHandler) Artist(c *gin.Context) {
	detail, err := h.statsService.ArtistDetail(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to get artist stats")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *StatsHandler) Browse(c *gin.Context) {
	page, err := service.ParsePage(c.Query("limit"), c.Query("offset"), service.DefaultBrowseSize)
	if err != nil {
		respondError(c, err, "Failed to browse lineups")
		return
	}

	result, err := h.statsService.Browse(c.Request.Context(), page, c.DefaultQuery("sort", service.SortRecent))
	if err != nil {
		respondError(c, err, "Failed to browse lineups")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StatsHandler) SearchArtists(c *gin.Context) {
	page, err := service.ParsePage(c.Query("limit"), "", service.DefaultSearchSize)
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}

	artists, err := h.statsService.SearchArtists(c.Request.Context(), c.Query("q"), page.Limit)
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": artists})
}

func (h *StatsHandler) Site(c *gin.Context) {
	totals, err := h.statsService.SiteTotals(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get site stats")
		return
	}
	c.JSON(http.StatusOK, totals)
}
