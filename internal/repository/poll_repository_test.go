package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
)

func seedPoll(t *testing.T, db *gorm.DB, contentID uint, labels ...string) *model.Poll {
	t.Helper()
	poll := &model.Poll{ContentType: model.ContentTweet, ContentID: contentID, Question: "?"}
	for i, l := range labels {
		poll.Options = append(poll.Options, model.PollOption{Position: i, Label: l})
	}
	require.NoError(t, db.Create(poll).Error)
	return poll
}

func TestToggleVoteAddRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewPollRepository(db)
	u := seedUser(t, db, "amira")
	tw := seedTweet(t, db, u.ID, model.KindOriginal, "poll", nil)
	poll := seedPoll(t, db, tw.ID, "yes", "no")

	action, err := repo.ToggleVote(ctx(), poll.ID, poll.Options[0].ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteAdded, action)

	action, err = repo.ToggleVote(ctx(), poll.ID, poll.Options[0].ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteRemoved, action)

	votes, err := repo.VotesFor(ctx(), []uint{poll.ID})
	require.NoError(t, err)
	assert.Empty(t, votes[poll.ID])
}

func TestToggleVoteMovesBetweenOptions(t *testing.T) {
	db := newTestDB(t)
	repo := NewPollRepository(db)
	u := seedUser(t, db, "amira")
	tw := seedTweet(t, db, u.ID, model.KindOriginal, "poll", nil)
	poll := seedPoll(t, db, tw.ID, "yes", "no")

	_, err := repo.ToggleVote(ctx(), poll.ID, poll.Options[0].ID, u.ID)
	require.NoError(t, err)

	action, err := repo.ToggleVote(ctx(), poll.ID, poll.Options[1].ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteMoved, action)

	// total vote count is conserved across a move
	votes, err := repo.VotesFor(ctx(), []uint{poll.ID})
	require.NoError(t, err)
	require.Len(t, votes[poll.ID], 1)
	assert.Equal(t, poll.Options[1].ID, votes[poll.ID][0].OptionID)
}

func TestOneVotePerPollAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewPollRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")
	tw := seedTweet(t, db, a.ID, model.KindOriginal, "poll", nil)
	poll := seedPoll(t, db, tw.ID, "yes", "no")

	_, err := repo.ToggleVote(ctx(), poll.ID, poll.Options[0].ID, a.ID)
	require.NoError(t, err)
	_, err = repo.ToggleVote(ctx(), poll.ID, poll.Options[1].ID, b.ID)
	require.NoError(t, err)

	votes, err := repo.VotesFor(ctx(), []uint{poll.ID})
	require.NoError(t, err)
	assert.Len(t, votes[poll.ID], 2)
}

func TestPollOptionsOrderedByPosition(t *testing.T) {
	db := newTestDB(t)
	repo := NewPollRepository(db)
	u := seedUser(t, db, "amira")
	tw := seedTweet(t, db, u.ID, model.KindOriginal, "poll", nil)
	seedPoll(t, db, tw.ID, "first", "second", "third")

	polls, err := repo.ForContent(ctx(), model.ContentTweet, []uint{tw.ID})
	require.NoError(t, err)
	got := polls[tw.ID]
	require.NotNil(t, got)
	require.Len(t, got.Options, 3)
	assert.Equal(t, "first", got.Options[0].Label)
	assert.Equal(t, "third", got.Options[2].Label)
}
