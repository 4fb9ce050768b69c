package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/akarlsen/filterlab/api"
	photoimaging "github.com/akarlsen/filterlab/photo/imaging"
)

const defaultPreviewWidth = 256

func (h *PhotoHandler) SetSource(c *gin.Context) {
	req := &api.SourceRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.component.SetSource(req.Path); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, photoimaging.ErrDecode) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.state())
}

func (h *PhotoHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

func (h *PhotoHandler) GetImage(c *gin.Context) {
	img := h.component.Image()
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image loaded"})
		return
	}

	c.Header("Content-Type", "image/jpeg")
	if err := imaging.Encode(c.Writer, img, imaging.JPEG); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (h *PhotoHandler) GetPreview(c *gin.Context) {
	img := h.component.Image()
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image loaded"})
		return
	}

	width := defaultPreviewWidth
	if w := c.Query("width"); w != "" {
		parsed, err := strconv.Atoi(w)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive integer"})
			return
		}
		width = parsed
	}

	preview := imaging.Resize(img, width, 0, imaging.Lanczos)

	c.Header("Content-Type", "image/jpeg")
	if err := imaging.Encode(c.Writer, preview, imaging.JPEG); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (h *PhotoHandler) state() *api.State {
	size := h.component.Size()
	state := &api.State{
		Source:   h.component.Source(),
		Applying: h.component.IsApplyingFilter(),
		Width:    size.Width,
		Height:   size.Height,
	}
	if f := h.component.Filter(); f != nil {
		state.Filter = f.Name()
	}
	return state
}
