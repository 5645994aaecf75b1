package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

func TestCreateTweetWithMentionsTagsAndPoll(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	author := seedUser(t, db, "amira")
	mentioned := seedUser(t, db, "basim")

	tw := &model.Tweet{AuthorID: author.ID, Kind: model.KindOriginal, Text: "hi @basim #go"}
	mentions := []model.Mention{{MentionerID: author.ID, MentionedID: mentioned.ID}}
	poll := &model.Poll{Question: "?", Options: []model.PollOption{
		{Position: 0, Label: "yes"},
		{Position: 1, Label: "no"},
	}}
	require.NoError(t, repo.Create(ctx(), tw, mentions, []string{"go"}, poll))

	var mentionCount, tagLinkCount, pollCount int64
	db.Model(&model.Mention{}).Where("content_id = ?", tw.ID).Count(&mentionCount)
	db.Model(&model.TagLink{}).Where("content_id = ?", tw.ID).Count(&tagLinkCount)
	db.Model(&model.Poll{}).Where("content_id = ?", tw.ID).Count(&pollCount)
	assert.Equal(t, int64(1), mentionCount)
	assert.Equal(t, int64(1), tagLinkCount)
	assert.Equal(t, int64(1), pollCount)
}

func TestCreateTweetReusesExistingTag(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	author := seedUser(t, db, "amira")

	first := &model.Tweet{AuthorID: author.ID, Kind: model.KindOriginal, Text: "#go"}
	require.NoError(t, repo.Create(ctx(), first, nil, []string{"go"}, nil))
	second := &model.Tweet{AuthorID: author.ID, Kind: model.KindOriginal, Text: "#go again"}
	require.NoError(t, repo.Create(ctx(), second, nil, []string{"go"}, nil))

	var tagCount int64
	db.Model(&model.Tag{}).Count(&tagCount)
	assert.Equal(t, int64(1), tagCount)
}

func TestGetTweetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)

	_, err := repo.GetByID(ctx(), 999)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestFeedPageFiltersAuthorsAndKinds(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	followed := seedUser(t, db, "amira")
	blocked := seedUser(t, db, "basim")
	stranger := seedUser(t, db, "celine")

	seedTweet(t, db, followed.ID, model.KindOriginal, "from followed", nil)
	parent := seedTweet(t, db, followed.ID, model.KindOriginal, "parent", nil)
	seedTweet(t, db, followed.ID, model.KindReply, "a reply", &parent.ID)
	seedTweet(t, db, blocked.ID, model.KindOriginal, "from blocked", nil)
	seedTweet(t, db, stranger.ID, model.KindOriginal, "from stranger", nil)

	page, err := repo.FeedPage(ctx(), []uint{followed.ID, blocked.ID}, []uint{blocked.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	for _, tw := range page {
		assert.Equal(t, followed.ID, tw.AuthorID)
		assert.NotEqual(t, model.KindReply, tw.Kind)
	}
}

func TestFeedPageEmptyFollowingReturnsNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	u := seedUser(t, db, "amira")
	seedTweet(t, db, u.ID, model.KindOriginal, "hello", nil)

	page, err := repo.FeedPage(ctx(), nil, nil, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestReplyAndReshareCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	author := seedUser(t, db, "amira")
	other := seedUser(t, db, "basim")

	original := seedTweet(t, db, author.ID, model.KindOriginal, "original", nil)
	seedTweet(t, db, other.ID, model.KindReply, "reply one", &original.ID)
	seedTweet(t, db, other.ID, model.KindReply, "reply two", &original.ID)
	seedTweet(t, db, other.ID, model.KindRepost, "", &original.ID)
	seedTweet(t, db, other.ID, model.KindQuote, "quoting", &original.ID)

	replies, err := repo.ReplyCounts(ctx(), []uint{original.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), replies[original.ID])

	reshares, err := repo.ReshareCounts(ctx(), []uint{original.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), reshares[original.ID])
}

func TestPlainRepostByUserIgnoresQuotes(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	author := seedUser(t, db, "amira")
	viewer := seedUser(t, db, "basim")
	original := seedTweet(t, db, author.ID, model.KindOriginal, "original", nil)
	seedTweet(t, db, viewer.ID, model.KindQuote, "a quote", &original.ID)

	got, err := repo.PlainRepostByUser(ctx(), original.ID, viewer.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	repost := seedTweet(t, db, viewer.ID, model.KindRepost, "", &original.ID)
	got, err = repo.PlainRepostByUser(ctx(), original.ID, viewer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, repost.ID, got.ID)
}

func TestDeleteTweetRemovesEdgesAndPoll(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	engage := NewEngagementRepository(db)
	author := seedUser(t, db, "amira")
	viewer := seedUser(t, db, "basim")

	tw := &model.Tweet{AuthorID: author.ID, Kind: model.KindOriginal, Text: "bye"}
	poll := &model.Poll{Question: "?", Options: []model.PollOption{{Position: 0, Label: "a"}, {Position: 1, Label: "b"}}}
	require.NoError(t, repo.Create(ctx(), tw, nil, []string{"bye"}, poll))
	_, err := engage.ToggleReact(ctx(), model.ContentTweet, tw.ID, viewer.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx(), tw.ID))

	var reacts, polls, options, links int64
	db.Model(&model.React{}).Where("content_id = ?", tw.ID).Count(&reacts)
	db.Model(&model.Poll{}).Where("content_id = ?", tw.ID).Count(&polls)
	db.Model(&model.PollOption{}).Count(&options)
	db.Model(&model.TagLink{}).Where("content_id = ?", tw.ID).Count(&links)
	assert.Zero(t, reacts)
	assert.Zero(t, polls)
	assert.Zero(t, options)
	assert.Zero(t, links)
}
