package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/theline-social/theline/config"
	"github.com/theline-social/theline/internal/api/handler"
	"github.com/theline-social/theline/internal/realtime"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/database"
	"github.com/theline-social/theline/pkg/response"
)

const testJWTSecret = "router-test-secret"

type memStorage struct{}

func (memStorage) Save(_ context.Context, folder, filename, _ string, _ io.Reader) (string, error) {
	return "/uploads/" + folder + "/" + filename, nil
}

func (memStorage) Delete(context.Context, string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	rel := repository.NewRelationshipRepository(db)
	engage := repository.NewEngagementRepository(db)
	tweets := repository.NewTweetRepository(db)
	reels := repository.NewReelRepository(db)
	polls := repository.NewPollRepository(db)
	tags := repository.NewTagRepository(db)
	topics := repository.NewTopicRepository(db)
	notifs := repository.NewNotificationRepository(db)
	chats := repository.NewChatRepository(db)
	jobs := repository.NewJobRepository(db)
	subs := repository.NewSubscriptionRepository(db)

	hub := realtime.NewHub()
	storage := memStorage{}
	loader := service.NewProjectionLoader(users, rel, engage, tweets, reels, polls)
	notifier := service.NewNotificationService(notifs, users, hub, 16, 30)

	h := &handler.Handler{
		Users:         service.NewUserService(users, rel, loader, testJWTSecret, time.Hour),
		Relationships: service.NewRelationshipService(users, rel, notifier),
		Engagement:    service.NewEngagementService(engage, tweets, reels, polls, loader, notifier),
		Tweets:        service.NewTweetService(tweets, users, loader, storage, notifier),
		Reels:         service.NewReelService(reels, users, loader, storage, notifier),
		Feed:          service.NewFeedService(users, rel, tweets, reels, loader),
		Tags:          service.NewTagService(tags, nil, time.Minute),
		Topics:        service.NewTopicService(topics),
		Notifications: notifier,
		Chat:          service.NewChatService(chats, users, rel, hub, notifier),
		Jobs:          service.NewJobService(jobs),
		Subscriptions: service.NewSubscriptionService(subs, users),
		Hub:           hub,
		Storage:       storage,
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.CORS.Origins = []string{"*"}

	return NewRouter(cfg, h)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env response.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

func register(t *testing.T, r *gin.Engine, handle string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"handle":   handle,
		"name":     handle,
		"password": "long enough password",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	data := env.Data.(map[string]any)
	return data["token"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Status)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Status)
}

func TestRegisterValidatesHandle(t *testing.T) {
	r := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"handle":   "No Spaces!",
		"name":     "someone",
		"password": "long enough password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowToggleFlow(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "amira")
	register(t, r, "basim")

	w, env := doJSON(t, r, http.MethodPatch, "/api/v1/users/toggle-follow/basim", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, "followed successfully", env.Message)

	w, env = doJSON(t, r, http.MethodPatch, "/api/v1/users/toggle-follow/basim", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unfollowed successfully", env.Message)
}

func TestTweetLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	author := register(t, r, "amira")
	viewer := register(t, r, "basim")

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/tweets", author, gin.H{
		"kind": "original",
		"text": "hello from the api",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	tweet := env.Data.(map[string]any)
	id := int(tweet["id"].(float64))

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/tweets/"+strconv.Itoa(id), viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := env.Data.(map[string]any)
	assert.Equal(t, "hello from the api", got["text"])

	// only the author may delete
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/tweets/"+strconv.Itoa(id), viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/tweets/"+strconv.Itoa(id), author, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/tweets/"+strconv.Itoa(id), viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffRoutesRejectUserTokens(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "amira")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/topics", token, gin.H{
		"nameAr": "تقنية",
		"nameEn": "Tech",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedAndNotificationEndpoints(t *testing.T) {
	r := newTestRouter(t)
	viewer := register(t, r, "amira")
	author := register(t, r, "basim")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/tweets", author, gin.H{
		"kind": "original",
		"text": "discover me",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/feed", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	data := env.Data.(map[string]any)
	items, ok := data["timelineItems"].([]any)
	require.True(t, ok, "feed data: %v", data)
	assert.Len(t, items, 1)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/notifications", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok = env.Data.(map[string]any)["notifications"]
	assert.True(t, ok)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/notifications/unseen-count", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.Data.(map[string]any)["count"])
}

func TestUnknownPollVoteIndexRejected(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "amira")

	w, env := doJSON(t, r, http.MethodPatch, "/api/v1/polls/1/toggle-vote/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "option index must be a number", env.Message)
}

