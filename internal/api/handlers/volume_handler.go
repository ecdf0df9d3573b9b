package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/application"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/pkg/response"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
)

type VolumeHandler struct {
	svc *application.VolumeService
}

func NewVolumeHandler(svc *application.VolumeService) *VolumeHandler {
	return &VolumeHandler{svc: svc}
}

// CreateVolume godoc
// @Summary Create a volume
// @Description Creates the record and provisions a ReadWriteMany claim for it.
// @Tags volumes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body volume.CreateVolumeInput true "Volume"
// @Success 201 {object} volume.Volume
// @Failure 409 {object} response.ErrorResponse "Volume already exists"
// @Failure 502 {object} response.ErrorResponse "Claim could not be created"
// @Router /volumes [post]
func (h *VolumeHandler) CreateVolume(c *gin.Context) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	var input volume.CreateVolumeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.svc.Create(c.Request.Context(), subject, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// ListVolumes godoc
// @Summary List volumes
// @Tags volumes
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} volume.Volume
// @Router /volumes [get]
func (h *VolumeHandler) ListVolumes(c *gin.Context) {
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
	vols, err := h.svc.List(subject, paging)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vols)
}

// GetVolume godoc
// @Summary Get a volume
// @Tags volumes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Volume ID"
// @Success 200 {object} volume.Volume
// @Failure 404 {object} response.ErrorResponse
// @Router /volumes/{id} [get]
func (h *VolumeHandler) GetVolume(c *gin.Context) {
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
	v, err := h.svc.Get(subject, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DeleteVolume godoc
// @Summary Delete a volume
// @Tags volumes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Volume ID"
// @Success 200 {object} response.MessageResponse
// @Router /volumes/{id} [delete]
func (h *VolumeHandler) DeleteVolume(c *gin.Context) {
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
	if err := h.svc.Delete(c.Request.Context(), subject, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Volume deleted"})
}
