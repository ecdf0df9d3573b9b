package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/application"
	"github.com/linskybing/pinta-go/pkg/response"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
)

type ImageHandler struct {
	service *application.ImageService
}

func NewImageHandler(service *application.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// ListImages godoc
// @Summary List committed images
// @Tags images
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} image.Image
// @Router /images [get]
func (h *ImageHandler) ListImages(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	var paging types.Paging
	if err := c.ShouldBindQuery(&paging); err != nil {
		bindError(c, err)
		return
	}
	imgs, err := h.service.List(subject, paging)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, imgs)
}

// GetImage godoc
// @Summary Get an image
// @Tags images
// @Security BearerAuth
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} image.Image
// @Router /images/{id} [get]
func (h *ImageHandler) GetImage(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	img, err := h.service.Get(subject, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// DeleteImage godoc
// @Summary Delete an image record
// @Tags images
// @Security BearerAuth
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} response.MessageResponse
// @Router /images/{id} [delete]
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.service.Delete(subject, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Image deleted"})
}
