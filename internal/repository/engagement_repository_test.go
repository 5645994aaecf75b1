package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
)

func TestToggleReactIsIdempotentPerPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := seedUser(t, db, "amira")
	viewer := seedUser(t, db, "basim")
	tw := seedTweet(t, db, author.ID, model.KindOriginal, "hello", nil)

	added, err := repo.ToggleReact(ctx(), model.ContentTweet, tw.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.ToggleReact(ctx(), model.ContentTweet, tw.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, added)

	counts, err := repo.ReactCounts(ctx(), model.ContentTweet, []uint{tw.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[tw.ID])
}

func TestReactsAreScopedByContentType(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := seedUser(t, db, "amira")
	viewer := seedUser(t, db, "basim")
	tw := seedTweet(t, db, author.ID, model.KindOriginal, "hello", nil)
	reel := &model.Reel{AuthorID: author.ID, Kind: model.KindOriginal, VideoURL: "/v.mp4"}
	require.NoError(t, db.Create(reel).Error)

	_, err := repo.ToggleReact(ctx(), model.ContentTweet, tw.ID, viewer.ID)
	require.NoError(t, err)

	// a reel sharing the tweet's numeric id is untouched
	set, err := repo.ReactedSet(ctx(), model.ContentReel, viewer.ID, []uint{reel.ID})
	require.NoError(t, err)
	assert.False(t, set[reel.ID])

	set, err = repo.ReactedSet(ctx(), model.ContentTweet, viewer.ID, []uint{tw.ID})
	require.NoError(t, err)
	assert.True(t, set[tw.ID])
}

func TestBookmarkToggleAndMembership(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := seedUser(t, db, "amira")
	viewer := seedUser(t, db, "basim")
	tw := seedTweet(t, db, author.ID, model.KindOriginal, "hello", nil)

	added, err := repo.ToggleBookmark(ctx(), model.ContentTweet, tw.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, added)

	set, err := repo.BookmarkedSet(ctx(), model.ContentTweet, viewer.ID, []uint{tw.ID})
	require.NoError(t, err)
	assert.True(t, set[tw.ID])

	other, err := repo.BookmarkedSet(ctx(), model.ContentTweet, author.ID, []uint{tw.ID})
	require.NoError(t, err)
	assert.False(t, other[tw.ID])
}

func TestMentionsForGroupsAndPreloads(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	author := seedUser(t, db, "amira")
	mentioned := seedUser(t, db, "basim")
	tw := seedTweet(t, db, author.ID, model.KindOriginal, "hi @basim", nil)

	m := &model.Mention{
		ContentType: model.ContentTweet,
		ContentID:   tw.ID,
		MentionerID: author.ID,
		MentionedID: mentioned.ID,
	}
	require.NoError(t, db.Create(m).Error)

	got, err := repo.MentionsFor(ctx(), model.ContentTweet, []uint{tw.ID})
	require.NoError(t, err)
	require.Len(t, got[tw.ID], 1)
	assert.Equal(t, "basim", got[tw.ID][0].Mentioned.Handle)
}
