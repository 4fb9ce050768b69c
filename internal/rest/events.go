package rest

import (
	"io"

	"github.com/gin-gonic/gin"
)

// Events streams component notifications to the client as server-sent
// events. The stream ends when the client disconnects.
func (h *PhotoHandler) Events(c *gin.Context) {
	ch, cancel := h.component.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(n.Kind), n)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
