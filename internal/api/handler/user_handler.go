package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/response"
)

func (h *Handler) ToggleFollow(c *gin.Context) {
	added, err := h.Relationships.ToggleFollow(c.Request.Context(), middleware.UserID(c), c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if added {
		response.SuccessMessage(c, "followed successfully", nil)
		return
	}
	response.SuccessMessage(c, "unfollowed successfully", nil)
}

func (h *Handler) ToggleMute(c *gin.Context) {
	added, err := h.Relationships.ToggleMute(c.Request.Context(), middleware.UserID(c), c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if added {
		response.SuccessMessage(c, "muted successfully", nil)
		return
	}
	response.SuccessMessage(c, "unmuted successfully", nil)
}

func (h *Handler) ToggleBlock(c *gin.Context) {
	added, err := h.Relationships.ToggleBlock(c.Request.Context(), middleware.UserID(c), c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if added {
		response.SuccessMessage(c, "blocked successfully", nil)
		return
	}
	response.SuccessMessage(c, "unblocked successfully", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.Users.Profile(c.Request.Context(), middleware.UserID(c), c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

func (h *Handler) Followers(c *gin.Context) {
	page, limit := pageQuery(c)
	cards, err := h.Users.Followers(c.Request.Context(), middleware.UserID(c), c.Param("handle"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "users": cards})
}

func (h *Handler) Following(c *gin.Context) {
	page, limit := pageQuery(c)
	cards, err := h.Users.Following(c.Request.Context(), middleware.UserID(c), c.Param("handle"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "users": cards})
}

func (h *Handler) SearchUsers(c *gin.Context) {
	_, limit := pageQuery(c)
	cards, err := h.Users.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"users": cards})
}
