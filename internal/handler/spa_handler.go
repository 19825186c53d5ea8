package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SPAHandler serves the built client bundle. Unknown non-API GET paths get
// index.html so client-side routes survive a reload.
type SPAHandler struct {
	root string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{root: staticDir}
}

// NoRoute is installed as the router fallback.
func (h *SPAHandler) NoRoute(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/api" || h.root == "" {
		ErrorResponse(c, http.StatusNotFound, "Not found")
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		ErrorResponse(c, http.StatusNotFound, "Not found")
		return
	}

	if file, ok := h.resolve(path); ok {
		c.File(file)
		return
	}
	c.File(filepath.Join(h.root, "index.html"))
}

// resolve maps a request path onto a regular file under root.
func (h *SPAHandler) resolve(urlPath string) (string, bool) {
	clean := filepath.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	candidate := filepath.Join(h.root, filepath.FromSlash(clean))

	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	return candidate, true
}
