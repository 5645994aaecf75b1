package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

func newSubs(t *testing.T) (*env, SubscriptionService) {
	t.Helper()
	e := newEnv(t)
	return e, NewSubscriptionService(repository.NewSubscriptionRepository(e.db), e.users)
}

func seedEmployee(t *testing.T, e *env) *model.Employee {
	t.Helper()
	emp := &model.Employee{Email: "staff@theline.social", PasswordHash: "x", Role: "reviewer"}
	require.NoError(t, e.db.Create(emp).Error)
	return emp
}

func TestSubscriptionRequestValidatesTier(t *testing.T) {
	e, svc := newSubs(t)
	u := e.user(t, "amira")

	_, err := svc.Request(bg(), u.ID, "platinum")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	req, err := svc.Request(bg(), u.ID, "premium")
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionPending, req.Status)
}

func TestApprovalCopiesTierToUser(t *testing.T) {
	e, svc := newSubs(t)
	u := e.user(t, "amira")
	emp := seedEmployee(t, e)

	req, err := svc.Request(bg(), u.ID, "premium")
	require.NoError(t, err)

	reviewed, err := svc.Review(bg(), req.ID, emp.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionApproved, reviewed.Status)

	fresh, err := e.users.GetByID(bg(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium", fresh.SubscriptionTier)

	// the request is settled; a second review conflicts
	_, err = svc.Review(bg(), req.ID, emp.ID, false)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestRejectionLeavesUserUntouched(t *testing.T) {
	e, svc := newSubs(t)
	u := e.user(t, "amira")
	emp := seedEmployee(t, e)

	req, err := svc.Request(bg(), u.ID, "business")
	require.NoError(t, err)

	reviewed, err := svc.Review(bg(), req.ID, emp.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionRejected, reviewed.Status)

	fresh, err := e.users.GetByID(bg(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", fresh.SubscriptionTier)

	// a rejected request does not block asking again
	_, err = svc.Request(bg(), u.ID, "business")
	require.NoError(t, err)
}

func TestDuplicateTierRequestConflicts(t *testing.T) {
	e, svc := newSubs(t)
	u := e.user(t, "amira")
	emp := seedEmployee(t, e)

	req, err := svc.Request(bg(), u.ID, "premium")
	require.NoError(t, err)
	_, err = svc.Review(bg(), req.ID, emp.ID, true)
	require.NoError(t, err)

	_, err = svc.Request(bg(), u.ID, "premium")
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}
