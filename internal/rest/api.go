package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/akarlsen/filterlab/photo/application"
	"github.com/akarlsen/filterlab/photo/domain"
)

// PhotoHandler exposes the filtered image component over HTTP.
type PhotoHandler struct {
	component *application.FilteredImage
	saves     domain.SavedImageRepository
}

func NewPhotoHandler(component *application.FilteredImage, saves domain.SavedImageRepository) *PhotoHandler {
	return &PhotoHandler{
		component: component,
		saves:     saves,
	}
}

func NewApi(router *gin.Engine, h *PhotoHandler) {
	photoV1 := router.Group("photo/v1")
	{
		photoV1.POST("/source", h.SetSource)
		photoV1.GET("/state", h.GetState)
		photoV1.GET("/image", h.GetImage)
		photoV1.GET("/image/preview", h.GetPreview)

		photoV1.GET("/filters", h.ListFilters)
		photoV1.POST("/filters/:name/apply", h.ApplyFilter)
		photoV1.POST("/filters/params", h.SetParameter)
		photoV1.POST("/filters/reset", h.ResetFilter)

		photoV1.POST("/commit", h.Commit)
		photoV1.POST("/save", h.Save)
		photoV1.GET("/saved", h.ListSaved)

		photoV1.GET("/events", h.Events)
	}
}
