package api

import (
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/theline-social/theline/config"
	"github.com/theline-social/theline/internal/api/handler"
	"github.com/theline-social/theline/internal/api/middleware"
	"github.com/theline-social/theline/pkg/response"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

// registerValidators wires custom binding rules into gin's validator.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return handlePattern.MatchString(fl.Field().String())
		})
	}
}

// NewRouter builds the full HTTP surface.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		AllowCredentials: false,
	}))

	writeLimiter := middleware.NewIPRateLimiter(rate.Limit(5), 10)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"healthy": true})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(writeLimiter))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/employee-login", h.EmployeeLogin)
	}

	user := v1.Group("")
	user.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		user.GET("/feed", h.Timeline)
		user.GET("/reels/feed", h.ReelsFeed)

		user.POST("/tweets", middleware.RateLimit(writeLimiter), h.CreateTweet)
		user.GET("/tweets/:id", h.GetTweet)
		user.DELETE("/tweets/:id", h.DeleteTweet)
		user.GET("/tweets/:id/replies", h.TweetReplies)
		user.PATCH("/tweets/:id/toggle-react", h.ToggleTweetReact)
		user.PATCH("/tweets/:id/toggle-bookmark", h.ToggleTweetBookmark)
		user.POST("/tweets/:id/reshare", middleware.RateLimit(writeLimiter), h.ReshareTweet)

		user.POST("/reels", middleware.RateLimit(writeLimiter), h.CreateReel)
		user.GET("/reels/:id", h.GetReel)
		user.DELETE("/reels/:id", h.DeleteReel)
		user.GET("/reels/:id/replies", h.ReelReplies)
		user.PATCH("/reels/:id/toggle-react", h.ToggleReelReact)
		user.PATCH("/reels/:id/toggle-bookmark", h.ToggleReelBookmark)
		user.POST("/reels/:id/reshare", middleware.RateLimit(writeLimiter), h.ReshareReel)

		user.PATCH("/polls/:pollId/toggle-vote/:optionIndex", h.ToggleVote)

		user.PATCH("/users/toggle-follow/:handle", h.ToggleFollow)
		user.PATCH("/users/toggle-mute/:handle", h.ToggleMute)
		user.PATCH("/users/toggle-block/:handle", h.ToggleBlock)
		user.GET("/users/search", h.SearchUsers)
		user.PATCH("/users/me", h.UpdateProfile)
		user.GET("/users/:handle", h.Profile)
		user.GET("/users/:handle/followers", h.Followers)
		user.GET("/users/:handle/following", h.Following)

		user.GET("/tags/trending", h.TrendingTags)
		user.GET("/topics", h.ListTopics)

		user.GET("/notifications", h.ListNotifications)
		user.GET("/notifications/unseen-count", h.UnseenNotificationsCount)
		user.PATCH("/notifications/mark-seen", h.MarkNotificationsSeen)

		user.POST("/conversations", h.StartConversation)
		user.GET("/conversations", h.Conversations)
		user.GET("/conversations/:id/messages", h.ConversationMessages)
		user.PATCH("/conversations/:id/open", h.OpenConversation)
		user.PATCH("/conversations/:id/leave", h.LeaveConversation)
		user.POST("/conversations/:id/messages", h.SendMessage)

		user.GET("/jobs", h.ListJobs)
		user.POST("/jobs", middleware.RateLimit(writeLimiter), h.CreateJob)
		user.GET("/jobs/:id", h.GetJob)
		user.DELETE("/jobs/:id", h.DeleteJob)
		user.PATCH("/jobs/:id/toggle-bookmark", h.ToggleJobBookmark)
		user.POST("/jobs/:id/apply", h.ApplyToJob)
		user.GET("/jobs/:id/applicants", h.JobApplicants)

		user.POST("/subscriptions", middleware.RateLimit(writeLimiter), h.RequestSubscription)

		user.POST("/media", middleware.RateLimit(writeLimiter), h.Upload)
	}

	staff := v1.Group("")
	staff.Use(middleware.EmployeeAuth(cfg.Auth.JWTSecret))
	{
		staff.POST("/topics", h.CreateTopic)
		staff.PATCH("/topics/:id", h.UpdateTopic)
		staff.DELETE("/topics/:id", h.DeleteTopic)
		staff.GET("/subscriptions/pending", h.PendingSubscriptions)
		staff.PATCH("/subscriptions/:id/approve", h.ApproveSubscription)
		staff.PATCH("/subscriptions/:id/reject", h.RejectSubscription)
	}

	r.GET("/ws", middleware.Auth(cfg.Auth.JWTSecret), func(c *gin.Context) {
		if err := h.Hub.Serve(c.Writer, c.Request, middleware.UserID(c)); err != nil {
			response.Error(c, err)
		}
	})

	return r
}
