package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/pkg/apperr"
)

func newRel(e *env) RelationshipService {
	return NewRelationshipService(e.users, e.rel, e.notifier)
}

func TestToggleFollowByHandle(t *testing.T) {
	e := newEnv(t)
	svc := newRel(e)
	actor := e.user(t, "actor")
	e.user(t, "target")

	added, err := svc.ToggleFollow(bg(), actor.ID, "target")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.ToggleFollow(bg(), actor.ID, "target")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestToggleTargetsMustResolve(t *testing.T) {
	e := newEnv(t)
	svc := newRel(e)
	actor := e.user(t, "actor")

	_, err := svc.ToggleFollow(bg(), actor.ID, "nobody")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.ToggleBlock(bg(), actor.ID, "actor")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
}
