package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

func TestNotifyPersistsAndPushesWhenOnline(t *testing.T) {
	e := newEnv(t)
	sender := e.user(t, "sender")
	recipient := e.user(t, "recipient")
	e.pusher.online[recipient.ID] = true

	err := e.notifier.Notify(bg(), sender.ID, recipient.ID, model.NotificationFollow, nil)
	require.NoError(t, err)

	page, err := e.notifier.Page(bg(), recipient.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, model.NotificationFollow, page[0].Type)
	assert.Equal(t, sender.ID, page[0].SenderID)

	require.Len(t, e.pusher.pushes, 1)
	assert.Equal(t, recipient.ID, e.pusher.pushes[0].userID)
	assert.Equal(t, "notification", e.pusher.pushes[0].event)
}

func TestNotifySkipsPushWhenOffline(t *testing.T) {
	e := newEnv(t)
	sender := e.user(t, "sender")
	recipient := e.user(t, "recipient")

	require.NoError(t, e.notifier.Notify(bg(), sender.ID, recipient.ID, model.NotificationReact, nil))
	assert.Empty(t, e.pusher.pushes)

	cnt, err := e.notifier.UnseenCount(bg(), recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestNotifySelfIsNoOp(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "solo")

	require.NoError(t, e.notifier.Notify(bg(), u.ID, u.ID, model.NotificationReact, nil))

	cnt, err := e.notifier.UnseenCount(bg(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestNotifyUnknownUsers(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "known")

	err := e.notifier.Notify(bg(), u.ID, 999, model.NotificationFollow, nil)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	err = e.notifier.Notify(bg(), 999, u.ID, model.NotificationFollow, nil)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestMarkAllSeenClearsUnseenCount(t *testing.T) {
	e := newEnv(t)
	sender := e.user(t, "sender")
	recipient := e.user(t, "recipient")

	require.NoError(t, e.notifier.Notify(bg(), sender.ID, recipient.ID, model.NotificationFollow, nil))
	require.NoError(t, e.notifier.Notify(bg(), sender.ID, recipient.ID, model.NotificationReact, nil))
	require.NoError(t, e.notifier.MarkAllSeen(bg(), recipient.ID))

	cnt, err := e.notifier.UnseenCount(bg(), recipient.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestRetentionDeletesOnlySeenRows(t *testing.T) {
	e := newEnv(t)
	sender := e.user(t, "sender")
	recipient := e.user(t, "recipient")

	old := time.Now().AddDate(0, 0, -60)
	seen := &model.Notification{RecipientID: recipient.ID, SenderID: sender.ID, Type: model.NotificationFollow, IsSeen: true, CreatedAt: old}
	unseen := &model.Notification{RecipientID: recipient.ID, SenderID: sender.ID, Type: model.NotificationReact, CreatedAt: old}
	require.NoError(t, e.db.Create(seen).Error)
	require.NoError(t, e.db.Create(unseen).Error)

	deleted, err := e.notifs.DeleteSeenBefore(bg(), time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	page, err := e.notifier.Page(bg(), recipient.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, unseen.ID, page[0].ID)
}

func TestEnqueueWorkerDispatches(t *testing.T) {
	e := newEnv(t)
	sender := e.user(t, "sender")
	recipient := e.user(t, "recipient")

	stop := e.notifier.Start(1)
	defer stop(bg())

	e.notifier.Enqueue(sender.ID, recipient.ID, model.NotificationMention, map[string]any{"contentId": 7})

	require.Eventually(t, func() bool {
		cnt, err := e.notifier.UnseenCount(bg(), recipient.ID)
		return err == nil && cnt == 1
	}, 2*time.Second, 20*time.Millisecond)
}
