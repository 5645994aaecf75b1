package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theline-social/theline/internal/realtime"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/media"
)

// Handler carries every service the HTTP surface dispatches into.
type Handler struct {
	Users         service.UserService
	Relationships service.RelationshipService
	Engagement    service.EngagementService
	Tweets        service.TweetService
	Reels         service.ReelService
	Feed          service.FeedService
	Tags          service.TagService
	Topics        service.TopicService
	Notifications service.NotificationService
	Chat          service.ChatService
	Jobs          service.JobService
	Subscriptions service.SubscriptionService

	Hub     *realtime.Hub
	Storage media.Storage
}

// pageQuery reads ?page= and ?limit= with the usual defaults. Clamping
// happens in the services.
func pageQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// langQuery resolves the response language from ?lang= falling back to the
// Accept-Language header.
func langQuery(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	return c.GetHeader("Accept-Language")
}

// uintParam parses a numeric path segment; 0 means absent or malformed.
func uintParam(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(v)
}
