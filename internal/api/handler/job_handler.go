package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/response"
)

type applyRequest struct {
	CoverText string `json:"coverText" binding:"max=2048"`
}

func (h *Handler) CreateJob(c *gin.Context) {
	var req service.CreateJobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	job, err := h.Jobs.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, job)
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.Jobs.Get(c.Request.Context(), uintParam(c, "id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.Jobs.Delete(c.Request.Context(), middleware.UserID(c), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "job deleted successfully", nil)
}

func (h *Handler) ListJobs(c *gin.Context) {
	page, limit := pageQuery(c)
	jobs, err := h.Jobs.Page(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "jobs": jobs})
}

func (h *Handler) ToggleJobBookmark(c *gin.Context) {
	added, err := h.Jobs.ToggleBookmark(c.Request.Context(), uintParam(c, "id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if added {
		response.SuccessMessage(c, "job bookmarked", nil)
		return
	}
	response.SuccessMessage(c, "job bookmark removed", nil)
}

func (h *Handler) ApplyToJob(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.Jobs.Apply(c.Request.Context(), uintParam(c, "id"), middleware.UserID(c), req.CoverText); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "application submitted", nil)
}

func (h *Handler) JobApplicants(c *gin.Context) {
	page, limit := pageQuery(c)
	apps, err := h.Jobs.Applicants(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "applicants": apps})
}
