package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/pkg/apperr"
)

const testSecret = "test-secret"

func newUsers(e *env) UserService {
	return NewUserService(e.users, e.rel, e.loader, testSecret, time.Hour)
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)

	res, err := svc.Register(bg(), RegisterInput{Handle: "Amira_99", Name: "Amira", Password: "correct horse"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "amira_99", res.User.Handle)
	assert.NotEmpty(t, res.Token)

	login, err := svc.Login(bg(), "AMIRA_99", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	tok, err := jwt.Parse(login.Token, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(res.User.ID), claims["sub"])
	assert.Equal(t, "user", claims["scope"])
}

func TestRegisterDuplicateHandle(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)

	_, err := svc.Register(bg(), RegisterInput{Handle: "amira", Name: "Amira", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(bg(), RegisterInput{Handle: "Amira", Name: "Other", Password: "password2"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)

	_, err := svc.Register(bg(), RegisterInput{Handle: "amira", Name: "Amira", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(bg(), "amira", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
	// unknown handle is indistinguishable from a wrong password
	_, err = svc.Login(bg(), "nobody", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
	assert.Equal(t, "wrong handle or password", apperr.Message(err))
}

func TestProfileReflectsRelationship(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)
	viewer := e.user(t, "viewer")
	target := e.user(t, "target")

	_, err := e.rel.ToggleFollow(bg(), viewer.ID, target.ID)
	require.NoError(t, err)

	p, err := svc.Profile(bg(), viewer.ID, "target")
	require.NoError(t, err)
	assert.True(t, p.IsFollowed)
	assert.Equal(t, int64(1), p.FollowersCount)
}

func TestUpdateProfilePartial(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)
	u := e.user(t, "amira")

	bio := "hello"
	updated, err := svc.UpdateProfile(bg(), u.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	// untouched fields keep their values
	assert.Equal(t, "amira", updated.Name)
}

func TestSearchStripsAtPrefix(t *testing.T) {
	e := newEnv(t)
	svc := newUsers(e)
	viewer := e.user(t, "viewer")
	e.user(t, "amira")
	e.user(t, "amal")
	e.user(t, "basim")

	cards, err := svc.Search(bg(), viewer.ID, "@am", 10)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	_, err = svc.Search(bg(), viewer.ID, "   ", 10)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
}
