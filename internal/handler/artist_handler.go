package handler

import (
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/gin-gonic/gin"
)

type ArtistHandler struct {
	artistService *service.ArtistService
}

func NewArtistHandler(artistService *service.ArtistService) *ArtistHandler {
	return &ArtistHandler{artistService: artistService}
}

// Search proxies ?q= to the artist catalog.
func (h *ArtistHandler) Search(c *gin.Context) {
	artists, err := h.artistService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": artists})
}
