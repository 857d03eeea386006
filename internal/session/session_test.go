package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

var alice = models.User{Email: "alice@example.com", Name: "Alice"}

func signedIn() State {
	return Reduce(Initial(), Login{Result: async.Succeed(alice)})
}

func TestPendingClearsErrorForEveryOperation(t *testing.T) {
	actions := []Action{
		FetchProfile{Result: async.Pend[models.User]()},
		Register{Result: async.Pend[models.User]()},
		Login{Result: async.Pend[models.User]()},
		Logout{Result: async.Pend[Done]()},
		UpdateProfile{Result: async.Pend[models.User]()},
		ForgotPassword{Result: async.Pend[Done]()},
		ResetPassword{Result: async.Pend[Done]()},
	}
	for _, a := range actions {
		t.Run(a.ActionName(), func(t *testing.T) {
			s := Initial()
			s.Error = "stale"
			s = Reduce(s, a)
			assert.True(t, s.IsLoading)
			assert.Empty(t, s.Error)
		})
	}
}

func TestFallbacks(t *testing.T) {
	cases := []struct {
		action   Action
		fallback string
	}{
		{FetchProfile{Result: async.Fail[models.User]("")}, FallbackFetchProfile},
		{Register{Result: async.Fail[models.User]("")}, FallbackRegister},
		{Login{Result: async.Fail[models.User]("")}, FallbackLogin},
		{Logout{Result: async.Fail[Done]("")}, FallbackLogout},
		{UpdateProfile{Result: async.Fail[models.User]("")}, FallbackUpdateProfile},
		{ForgotPassword{Result: async.Fail[Done]("")}, FallbackForgotPassword},
		{ResetPassword{Result: async.Fail[Done]("")}, FallbackResetPassword},
	}
	seen := map[string]bool{}
	for _, tc := range cases {
		s := Reduce(Initial(), tc.action)
		assert.Equal(t, tc.fallback, s.Error, tc.action.ActionName())
		assert.False(t, s.IsLoading)
		assert.False(t, seen[tc.fallback], "fallback %q reused", tc.fallback)
		seen[tc.fallback] = true
	}
}

func TestFetchProfile(t *testing.T) {
	s := Reduce(Initial(), FetchProfile{Result: async.Succeed(alice)})
	require.NotNil(t, s.User)
	assert.Equal(t, alice, *s.User)
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)

	s = Reduce(s, FetchProfile{Result: async.Fail[models.User]("jwt malformed")})
	assert.Nil(t, s.User)
	assert.False(t, s.IsAuthenticated)
	assert.Equal(t, "jwt malformed", s.Error)
}

func TestLoginFailureKeepsKnownUser(t *testing.T) {
	s := signedIn()
	s = Reduce(s, Login{Result: async.Pend[models.User]()})
	s = Reduce(s, Login{Result: async.Fail[models.User]("")})

	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, FallbackLogin, s.Error)
	require.NotNil(t, s.User)
	assert.Equal(t, alice, *s.User)
}

func TestLoginFailureFromScratch(t *testing.T) {
	s := Reduce(Initial(), Login{Result: async.Fail[models.User]("")})
	assert.Nil(t, s.User)
	assert.False(t, s.IsAuthenticated)
	assert.Equal(t, FallbackLogin, s.Error)
}

func TestRegisterSucceeded(t *testing.T) {
	s := Reduce(Initial(), Register{Result: async.Succeed(alice)})
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, alice, *s.User)
	assert.Empty(t, s.Error)
}

func TestLogoutPendingKeepsUser(t *testing.T) {
	s := Reduce(signedIn(), Logout{Result: async.Pend[Done]()})
	assert.True(t, s.IsAuthenticated)
	assert.NotNil(t, s.User)
	assert.True(t, s.IsLoading)
}

func TestLogoutSettles(t *testing.T) {
	ok := Reduce(signedIn(), Logout{Result: async.Succeed(Done{})})
	assert.Nil(t, ok.User)
	assert.False(t, ok.IsAuthenticated)
	assert.Empty(t, ok.Error)

	failed := Reduce(signedIn(), Logout{Result: async.Fail[Done]("X")})
	assert.Nil(t, failed.User)
	assert.False(t, failed.IsAuthenticated)
	assert.Equal(t, "X", failed.Error)
}

func TestUpdateProfileLeavesAuthentication(t *testing.T) {
	renamed := models.User{Email: alice.Email, Name: "Alice B."}

	s := Reduce(signedIn(), UpdateProfile{Result: async.Succeed(renamed)})
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, renamed, *s.User)

	s = Reduce(s, UpdateProfile{Result: async.Fail[models.User]("email taken")})
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, renamed, *s.User)
	assert.Equal(t, "email taken", s.Error)
}

func TestPasswordRecoveryDoesNotTouchProfile(t *testing.T) {
	before := signedIn()
	s := Reduce(before, ForgotPassword{Result: async.Succeed(Done{})})
	s = Reduce(s, ResetPassword{Result: async.Succeed(Done{})})

	assert.Equal(t, before.User, s.User)
	assert.Equal(t, before.IsAuthenticated, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Error)
}
