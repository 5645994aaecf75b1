package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

type startConversationRequest struct {
	Handle string `json:"handle" binding:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2048"`
}

func (h *Handler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	conv, err := h.Chat.StartConversation(c.Request.Context(), middleware.UserID(c), req.Handle)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

func (h *Handler) Conversations(c *gin.Context) {
	page, limit := pageQuery(c)
	convs, err := h.Chat.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "conversations": convs})
}

func (h *Handler) ConversationMessages(c *gin.Context) {
	page, limit := pageQuery(c)
	msgs, err := h.Chat.Messages(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "messages": msgs})
}

func (h *Handler) OpenConversation(c *gin.Context) {
	if err := h.Chat.Open(c.Request.Context(), middleware.UserID(c), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "conversation opened", nil)
}

func (h *Handler) LeaveConversation(c *gin.Context) {
	if err := h.Chat.Leave(c.Request.Context(), middleware.UserID(c), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "conversation left", nil)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.Chat.Send(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
