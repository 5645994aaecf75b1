package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

type subscriptionRequestBody struct {
	Tier string `json:"tier" binding:"required,oneof=premium business"`
}

func (h *Handler) RequestSubscription(c *gin.Context) {
	var req subscriptionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.Subscriptions.Request(c.Request.Context(), middleware.UserID(c), req.Tier)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

func (h *Handler) PendingSubscriptions(c *gin.Context) {
	page, limit := pageQuery(c)
	subs, err := h.Subscriptions.Pending(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "requests": subs})
}

func (h *Handler) ApproveSubscription(c *gin.Context) {
	sub, err := h.Subscriptions.Review(c.Request.Context(), uintParam(c, "id"), middleware.EmployeeID(c), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "subscription approved", sub)
}

func (h *Handler) RejectSubscription(c *gin.Context) {
	sub, err := h.Subscriptions.Review(c.Request.Context(), uintParam(c, "id"), middleware.EmployeeID(c), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, "subscription rejected", sub)
}
