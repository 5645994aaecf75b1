package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

func newTweets(e *env) TweetService {
	return NewTweetService(e.tweets, e.users, e.loader, nopStorage{}, e.notifier)
}

func TestCreateTweetValidation(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")

	cases := []struct {
		name string
		in   CreateTweetInput
	}{
		{"original without content", CreateTweetInput{Kind: model.KindOriginal}},
		{"reply without target", CreateTweetInput{Kind: model.KindReply, Text: "hi"}},
		{"quote without text", CreateTweetInput{Kind: model.KindQuote, OriginalID: ptr(uint(1))}},
		{"repost through create", CreateTweetInput{Kind: model.KindRepost, OriginalID: ptr(uint(1))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(bg(), author.ID, tc.in, "en")
			assert.True(t, apperr.IsKind(err, apperr.Invalid))
		})
	}
}

func TestCreateTweetDefaultsToOriginal(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")

	dto, err := svc.Create(bg(), author.ID, CreateTweetInput{Text: "  trimmed  "}, "en")
	require.NoError(t, err)
	assert.Equal(t, model.KindOriginal, dto.Kind)
	assert.Equal(t, "trimmed", dto.Text)
}

func TestCreateReplyRequiresExistingParent(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")

	_, err := svc.Create(bg(), author.ID, CreateTweetInput{Kind: model.KindReply, Text: "hi", OriginalID: ptr(uint(999))}, "en")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCreateTweetResolvesKnownMentionsOnly(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")
	known := e.user(t, "basim")

	dto, err := svc.Create(bg(), author.ID, CreateTweetInput{Text: "hi @basim and @ghost"}, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"basim"}, dto.MentionedHandles)

	var mentions []model.Mention
	require.NoError(t, e.db.Where("content_id = ?", dto.ID).Find(&mentions).Error)
	require.Len(t, mentions, 1)
	assert.Equal(t, known.ID, mentions[0].MentionedID)
}

func TestCreateTweetWithPollProjectsOptions(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")

	dto, err := svc.Create(bg(), author.ID, CreateTweetInput{
		Text: "which one",
		Poll: &PollInput{Question: "?", Options: []string{"yes", "no"}},
	}, "en")
	require.NoError(t, err)
	require.NotNil(t, dto.Poll)
	require.Len(t, dto.Poll.Options, 2)
	assert.Equal(t, -1, dto.Poll.SelectedOptionIndex)
}

func TestDeleteTweetAuthorOnly(t *testing.T) {
	e := newEnv(t)
	svc := newTweets(e)
	author := e.user(t, "author")
	other := e.user(t, "other")
	tw := e.tweet(t, author.ID, model.KindOriginal, "mine", nil)

	err := svc.Delete(bg(), other.ID, tw.ID)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	require.NoError(t, svc.Delete(bg(), author.ID, tw.ID))
	_, err = svc.Get(bg(), author.ID, tw.ID, "en")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func ptr[T any](v T) *T { return &v }
