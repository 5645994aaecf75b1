package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollowFlips(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")

	added, err := repo.ToggleFollow(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, added)

	following, err := repo.IsFollowing(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	added, err = repo.ToggleFollow(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, added)

	following, err = repo.IsFollowing(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestToggleFollowNeverDoublesEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")

	// an odd number of toggles always lands on exactly one edge
	for i := 0; i < 5; i++ {
		_, err := repo.ToggleFollow(ctx(), a.ID, b.ID)
		require.NoError(t, err)
	}
	cnt, err := repo.FollowersCount(ctx(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestFollowIsDirectional(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")

	_, err := repo.ToggleFollow(ctx(), a.ID, b.ID)
	require.NoError(t, err)

	reverse, err := repo.IsFollowing(ctx(), b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestToggleBlockRemovesFollowsBothWays(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")

	_, err := repo.ToggleFollow(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(ctx(), b.ID, a.ID)
	require.NoError(t, err)

	added, err := repo.ToggleBlock(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, added)

	ab, err := repo.IsFollowing(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	ba, err := repo.IsFollowing(ctx(), b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ab)
	assert.False(t, ba)
}

func TestToggleBlockOffKeepsFollowsGone(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")

	_, err := repo.ToggleFollow(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	_, err = repo.ToggleBlock(ctx(), a.ID, b.ID)
	require.NoError(t, err)

	// unblocking does not restore the follow
	added, err := repo.ToggleBlock(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, added)

	following, err := repo.IsFollowing(ctx(), a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestBatchedFollowerCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRelationshipRepository(db)
	a := seedUser(t, db, "amira")
	b := seedUser(t, db, "basim")
	c := seedUser(t, db, "celine")

	_, err := repo.ToggleFollow(ctx(), a.ID, c.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(ctx(), b.ID, c.ID)
	require.NoError(t, err)

	counts, err := repo.FollowerCounts(ctx(), []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[c.ID])
	assert.Equal(t, int64(0), counts[a.ID])

	single, err := repo.FollowersCount(ctx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, counts[c.ID], single)
}
