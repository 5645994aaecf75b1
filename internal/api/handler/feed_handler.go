package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) Timeline(c *gin.Context) {
	page, limit := pageQuery(c)
	tweets, err := h.Feed.Timeline(c.Request.Context(), middleware.UserID(c), page, limit, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "timelineItems": tweets})
}

func (h *Handler) ReelsFeed(c *gin.Context) {
	page, limit := pageQuery(c)
	topicID, _ := strconv.ParseUint(c.Query("topic"), 10, 64)
	reels, err := h.Feed.ReelTimeline(c.Request.Context(), middleware.UserID(c), uint(topicID), page, limit, langQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "timelineItems": reels})
}
