package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appjob "github.com/linskybing/pinta-go/internal/application/job"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/pkg/response"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
)

type JobHandler struct {
	svc *appjob.Service
}

func NewJobHandler(svc *appjob.Service) *JobHandler {
	return &JobHandler{svc: svc}
}

// CreateJob godoc
// @Summary Create a job
// @Description Creates a job of the given type and schedules it unless schedule is false.
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body job.JobInput true "Job definition"
// @Success 201 {object} job.Job
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 404 {object} response.ErrorResponse "Volume or image does not exist"
// @Failure 502 {object} response.ErrorResponse "Cluster rejected the job"
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.create(c, "")
}

// CreateTyped returns a create handler that fixes the job type, for the
// /jobs/<topology> routes and the /images alias.
func (h *JobHandler) CreateTyped(t job.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.create(c, t)
	}
}

func (h *JobHandler) create(c *gin.Context, t job.Type) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return
	}
	var input job.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	switch {
	case t != "":
		input.Type = t
	case input.Type == "":
		input.Type = job.TypeSymmetric
	}
	sub, err := input.ToSubmission()
	if err != nil {
		respondError(c, err)
		return
	}
	j, err := h.svc.Create(c.Request.Context(), subject, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

// ListJobs godoc
// @Summary List jobs
// @Description Superusers see every job, other users their own.
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} job.JobWithStatus
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
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
	jobs, err := h.svc.List(c.Request.Context(), subject, paging)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary Get a job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} job.JobWithStatus
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	j, err := h.svc.Get(c.Request.Context(), subject, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

// UpdateJob godoc
// @Summary Update an unscheduled job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param input body job.JobInput true "Job definition"
// @Success 200 {object} job.Job
// @Failure 400 {object} response.ErrorResponse "Job already scheduled"
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	var input job.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.Type == "" {
		input.Type = job.TypeSymmetric
	}
	sub, err := input.ToSubmission()
	if err != nil {
		respondError(c, err)
		return
	}
	j, err := h.svc.Update(c.Request.Context(), subject, id, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

// ScheduleJob godoc
// @Summary Schedule a job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} job.Job
// @Failure 400 {object} response.ErrorResponse "Job already scheduled"
// @Failure 502 {object} response.ErrorResponse "Cluster rejected the job"
// @Router /jobs/{id} [patch]
func (h *JobHandler) ScheduleJob(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	j, err := h.svc.Schedule(c.Request.Context(), subject, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

// DeleteJob godoc
// @Summary Delete a job
// @Description Tears down the cluster resource and removes the record. Deleting a missing job succeeds.
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.MessageResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), subject, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Job deleted"})
}

// CommitJob godoc
// @Summary Commit an image builder job
// @Description Pushes the builder container as a new image and removes the job.
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Param image_name query string true "Name of the new image"
// @Success 201 {object} image.Image
// @Failure 409 {object} response.ErrorResponse "Image already exists"
// @Router /jobs/{id}/commit [post]
func (h *JobHandler) CommitJob(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	img, err := h.svc.Commit(c.Request.Context(), subject, id, c.Query("image_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// GetManifest godoc
// @Summary Download the workload manifest of a job
// @Tags jobs
// @Security BearerAuth
// @Produce application/yaml
// @Produce json
// @Param id path int true "Job ID"
// @Param format query string false "yaml or json"
// @Success 200 {string} string
// @Router /jobs/{id}/manifest [get]
func (h *JobHandler) GetManifest(c *gin.Context) {
	subject, id, ok := subjectAndID(c)
	if !ok {
		return
	}
	doc, err := h.svc.Manifest(c.Request.Context(), subject, id)
	if err != nil {
		respondError(c, err)
		return
	}
	format := c.Query("format")
	out, contentType, err := utils.RenderManifest(doc, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+utils.ManifestFilename(job.ResourceNameFor(id), format))
	c.Data(http.StatusOK, contentType, out)
}

func subjectAndID(c *gin.Context) (subject access.Subject, id uint, ok bool) {
	subject, err := utils.GetSubjectFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
		return subject, 0, false
	}
	id, err = utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return subject, 0, false
	}
	return subject, id, true
}
