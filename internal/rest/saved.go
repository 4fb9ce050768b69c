package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akarlsen/filterlab/api"
)

const (
	defaultSavedLimit = 50
	maxSavedLimit     = 500
)

func (h *PhotoHandler) Save(c *gin.Context) {
	filename, err := h.component.SaveImage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.SaveResponse{Filename: filename})
}

func (h *PhotoHandler) ListSaved(c *gin.Context) {
	limit := intQuery(c, "limit", defaultSavedLimit)
	if limit > maxSavedLimit {
		limit = maxSavedLimit
	}
	offset := intQuery(c, "offset", 0)

	saves, err := h.saves.ListSaves(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]api.SavedImage, 0, len(saves))
	for _, s := range saves {
		out = append(out, api.SavedImage{
			Filename:  s.Filename,
			Source:    s.Source,
			Filter:    s.Filter,
			Hash:      s.Hash,
			Width:     s.Width,
			Height:    s.Height,
			CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, out)
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
