// Package session tracks the signed-in customer. Authentication state only
// changes in response to backend answers; holding a token is not enough to be
// considered authenticated.
package session

import (
	"fmt"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

// Fallback messages recorded when a failure carries no message of its own
const (
	FallbackFetchProfile   = "failed to fetch profile"
	FallbackRegister       = "registration failed"
	FallbackLogin          = "login failed"
	FallbackLogout         = "logout failed"
	FallbackUpdateProfile  = "profile update failed"
	FallbackForgotPassword = "password recovery failed"
	FallbackResetPassword  = "password reset failed"
)

// State is the session slice
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Initial returns the signed-out session.
func Initial() State {
	return State{}
}

// Action is a change to the session
type Action interface {
	ActionName() string
	sessionAction()
}

// Done is the payload of operations that succeed without data
type Done struct{}

type (
	// FetchProfile is one phase of loading the current profile
	FetchProfile struct{ Result async.Result[models.User] }
	// Register is one phase of creating an account
	Register struct{ Result async.Result[models.User] }
	// Login is one phase of signing in
	Login struct{ Result async.Result[models.User] }
	// Logout is one phase of signing out
	Logout struct{ Result async.Result[Done] }
	// UpdateProfile is one phase of editing the profile
	UpdateProfile struct{ Result async.Result[models.User] }
	// ForgotPassword is one phase of requesting a recovery email
	ForgotPassword struct{ Result async.Result[Done] }
	// ResetPassword is one phase of setting a new password
	ResetPassword struct{ Result async.Result[Done] }
)

func (a FetchProfile) ActionName() string  { return "session/fetchProfile/" + a.Result.Phase.String() }
func (a Register) ActionName() string      { return "session/register/" + a.Result.Phase.String() }
func (a Login) ActionName() string         { return "session/login/" + a.Result.Phase.String() }
func (a Logout) ActionName() string        { return "session/logout/" + a.Result.Phase.String() }
func (a UpdateProfile) ActionName() string { return "session/updateProfile/" + a.Result.Phase.String() }
func (a ForgotPassword) ActionName() string {
	return "session/forgotPassword/" + a.Result.Phase.String()
}
func (a ResetPassword) ActionName() string { return "session/resetPassword/" + a.Result.Phase.String() }

func (FetchProfile) sessionAction()   {}
func (Register) sessionAction()       {}
func (Login) sessionAction()          {}
func (Logout) sessionAction()         {}
func (UpdateProfile) sessionAction()  {}
func (ForgotPassword) sessionAction() {}
func (ResetPassword) sessionAction()  {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchProfile:
		return reduceFetchProfile(s, a.Result)
	case Register:
		return reduceSignIn(s, a.Result, FallbackRegister)
	case Login:
		return reduceSignIn(s, a.Result, FallbackLogin)
	case Logout:
		return reduceLogout(s, a.Result)
	case UpdateProfile:
		return reduceUpdateProfile(s, a.Result)
	case ForgotPassword:
		return reduceQuiet(s, a.Result, FallbackForgotPassword)
	case ResetPassword:
		return reduceQuiet(s, a.Result, FallbackResetPassword)
	}
	panic(fmt.Sprintf("session: unhandled action %T", a))
}

func pending(s State) State {
	s.IsLoading = true
	s.Error = ""
	return s
}

func reduceFetchProfile(s State, r async.Result[models.User]) State {
	switch r.Phase {
	case async.Pending:
		return pending(s)
	case async.Succeeded:
		user := r.Payload
		s.User = &user
		s.IsAuthenticated = true
		s.IsLoading = false
	case async.Failed:
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = r.ReasonOr(FallbackFetchProfile)
	}
	return s
}

// reduceSignIn serves register and login. A failed attempt keeps any profile
// already known so the view does not lose it, but is never authenticated.
func reduceSignIn(s State, r async.Result[models.User], fallback string) State {
	switch r.Phase {
	case async.Pending:
		return pending(s)
	case async.Succeeded:
		user := r.Payload
		s.User = &user
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Error = ""
	case async.Failed:
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = r.ReasonOr(fallback)
	}
	return s
}

// reduceLogout leaves the user in place while the request is in flight. Any
// settlement, including failure, ends up signed out.
func reduceLogout(s State, r async.Result[Done]) State {
	switch r.Phase {
	case async.Pending:
		return pending(s)
	case async.Succeeded:
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = ""
	case async.Failed:
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = r.ReasonOr(FallbackLogout)
	}
	return s
}

func reduceUpdateProfile(s State, r async.Result[models.User]) State {
	switch r.Phase {
	case async.Pending:
		return pending(s)
	case async.Succeeded:
		user := r.Payload
		s.User = &user
		s.IsLoading = false
		s.Error = ""
	case async.Failed:
		s.IsLoading = false
		s.Error = r.ReasonOr(FallbackUpdateProfile)
	}
	return s
}

func reduceQuiet(s State, r async.Result[Done], fallback string) State {
	switch r.Phase {
	case async.Pending:
		return pending(s)
	case async.Succeeded:
		s.IsLoading = false
		s.Error = ""
	case async.Failed:
		s.IsLoading = false
		s.Error = r.ReasonOr(fallback)
	}
	return s
}
