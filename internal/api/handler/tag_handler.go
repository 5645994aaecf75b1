package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) TrendingTags(c *gin.Context) {
	_, limit := pageQuery(c)
	tags, err := h.Tags.Trending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}
