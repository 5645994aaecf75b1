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

type reshareRequest struct {
	Quote string `json:"quote" binding:"max=1024"`
}

func (h *Handler) CreateTweet(c *gin.Context) {
	var req service.CreateTweetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto, err := h.Tweets.Create(c.Request.Context(), middleware.UserID(c), req, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

func (h *Handler) GetTweet(c *gin.Context) {
	dto, err := h.Tweets.Get(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *Handler) DeleteTweet(c *gin.Context) {
	if err := h.Tweets.Delete(c.Request.Context(), middleware.UserID(c), uintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "tweet deleted successfully", nil)
}

func (h *Handler) TweetReplies(c *gin.Context) {
	page, limit := pageQuery(c)
	replies, err := h.Tweets.Replies(c.Request.Context(), middleware.UserID(c), uintParam(c, "id"), page, limit, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "replies": replies})
}

func (h *Handler) ToggleTweetReact(c *gin.Context) {
	err := h.Engagement.ToggleReact(c.Request.Context(), model.ContentTweet, uintParam(c, "id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "reaction toggled", nil)
}

func (h *Handler) ToggleTweetBookmark(c *gin.Context) {
	err := h.Engagement.ToggleBookmark(c.Request.Context(), model.ContentTweet, uintParam(c, "id"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "bookmark toggled", nil)
}

func (h *Handler) ReshareTweet(c *gin.Context) {
	var req reshareRequest
	// an empty body is a plain repost
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.Engagement.ReshareTweet(c.Request.Context(), uintParam(c, "id"), middleware.UserID(c), req.Quote, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, res.Message, res.Tweet)
}
