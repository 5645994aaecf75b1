package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) ToggleVote(c *gin.Context) {
	optionIndex, err := strconv.Atoi(c.Param("optionIndex"))
	if err != nil {
		response.BadRequest(c, "option index must be a number")
		return
	}
	if err := h.Engagement.ToggleVote(c.Request.Context(), uintParam(c, "pollId"), optionIndex, middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "vote toggled", nil)
}
