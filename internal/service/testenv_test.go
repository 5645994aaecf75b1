package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/database"
)

// env bundles the repositories and services most tests need, all backed by
// one in-memory database.
type env struct {
	db *gorm.DB

	users  repository.UserRepository
	rel    repository.RelationshipRepository
	engage repository.EngagementRepository
	tweets repository.TweetRepository
	reels  repository.ReelRepository
	polls  repository.PollRepository
	chats  repository.ChatRepository
	notifs repository.NotificationRepository

	loader   *ProjectionLoader
	notifier NotificationService
	pusher   *stubPusher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	e := &env{
		db:     db,
		users:  repository.NewUserRepository(db),
		rel:    repository.NewRelationshipRepository(db),
		engage: repository.NewEngagementRepository(db),
		tweets: repository.NewTweetRepository(db),
		reels:  repository.NewReelRepository(db),
		polls:  repository.NewPollRepository(db),
		chats:  repository.NewChatRepository(db),
		notifs: repository.NewNotificationRepository(db),
		pusher: &stubPusher{online: map[uint]bool{}},
	}
	e.loader = NewProjectionLoader(e.users, e.rel, e.engage, e.tweets, e.reels, e.polls)
	e.notifier = NewNotificationService(e.notifs, e.users, e.pusher, 16, 30)
	return e
}

func (e *env) user(t *testing.T, handle string) *model.User {
	t.Helper()
	u := &model.User{Handle: handle, Name: handle, PasswordHash: "x"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *env) tweet(t *testing.T, authorID uint, kind model.Kind, text string, originalID *uint) *model.Tweet {
	t.Helper()
	tw := &model.Tweet{AuthorID: authorID, Kind: kind, Text: text, OriginalID: originalID}
	require.NoError(t, e.db.Create(tw).Error)
	return tw
}

// stubPusher records pushes instead of opening sockets.
type stubPusher struct {
	online map[uint]bool
	pushes []stubPush
}

type stubPush struct {
	userID  uint
	event   string
	payload any
}

func (p *stubPusher) Push(userID uint, event string, payload any) {
	p.pushes = append(p.pushes, stubPush{userID: userID, event: event, payload: payload})
}

func (p *stubPusher) IsOnline(userID uint) bool { return p.online[userID] }

// nopStorage satisfies media.Storage for services that never exercise it.
type nopStorage struct{}

func (nopStorage) Save(_ context.Context, folder, filename, _ string, _ io.Reader) (string, error) {
	return "/" + folder + "/" + filename, nil
}

func (nopStorage) Delete(context.Context, string) error { return nil }

func bg() context.Context { return context.Background() }
