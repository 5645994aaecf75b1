package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) ListTopics(c *gin.Context) {
	topics, err := h.Topics.List(c.Request.Context(), langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"topics": topics})
}

func (h *Handler) CreateTopic(c *gin.Context) {
	var req service.TopicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.Topics.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t)
}

func (h *Handler) UpdateTopic(c *gin.Context) {
	var req service.TopicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.Topics.Update(c.Request.Context(), uintParam(c, "id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}

func (h *Handler) DeleteTopic(c *gin.Context) {
	if err := h.Topics.Delete(c.Request.Context(), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "topic deleted successfully", nil)
}
