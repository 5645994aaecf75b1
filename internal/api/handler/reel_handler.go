package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) CreateReel(c *gin.Context) {
	var req service.CreateReelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto, err := h.Reels.Create(c.Request.Context(), middleware.UserID(c), req, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

func (h *Handler) GetReel(c *gin.Context) {
	dto, err := h.Reels.Get(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *Handler) DeleteReel(c *gin.Context) {
	if err := h.Reels.Delete(c.Request.Context(), middleware.UserID(c), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "reel deleted successfully", nil)
}

func (h *Handler) ReelReplies(c *gin.Context) {
	page, limit := pageQuery(c)
	replies, err := h.Reels.Replies(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), page, limit, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "replies": replies})
}

func (h *Handler) ToggleReelReact(c *gin.Context) {
	err := h.Engagement.ToggleReact(c.Request.Context(), model.ContentReel, uintParam(c, "id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "reaction toggled", nil)
}

func (h *Handler) ToggleReelBookmark(c *gin.Context) {
	err := h.Engagement.ToggleBookmark(c.Request.Context(), model.ContentReel, uintParam(c, "id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "bookmark toggled", nil)
}

func (h *Handler) ReshareReel(c *gin.Context) {
	var req reshareRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.Engagement.ReshareReel(c.Request.Context(), uintParam(c, "id"), middleware.UserID(c), req.Quote, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, res.Message, res.Reel)
}
