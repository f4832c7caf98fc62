package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/forms"
	"github.com/shashiranjanraj/cafehub/app/services"
	"github.com/shashiranjanraj/cafehub/pkg/ctx"
	"github.com/shashiranjanraj/cafehub/pkg/guard"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/response"
)

const (
	noticeRegistered = "User created! Please sign in."
	noticeDuplicate  = "You've already signed up with that email, log in instead!"
	noticeBadLogin   = "Invalid email or password. Please try again."
)

// Sessions is what the auth endpoints need from the session manager.
type Sessions interface {
	Notices
	Login(w http.ResponseWriter, userID uint) error
	Logout(w http.ResponseWriter, r *http.Request) error
}

type AuthController struct {
	auth     *services.AuthService
	sessions Sessions
	admins   guard.AdminLookup
}

func NewAuthController(auth *services.AuthService, sessions Sessions, admins guard.AdminLookup) *AuthController {
	return &AuthController{auth: auth, sessions: sessions, admins: admins}
}

// PrincipalView describes the caller to clients.
type PrincipalView struct {
	Authenticated bool `json:"authenticated"`
	UserID        uint `json:"user_id,omitempty"`
	Admin         bool `json:"admin"`
}

func (ac *AuthController) Register(c *ctx.Context) {
	var form forms.CredentialsForm
	if !c.Bind(&form) {
		return
	}
	user, err := ac.auth.Register(c.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, errs.ErrDuplicateEmail):
		ac.sessions.Flash(c.W, c.R, noticeDuplicate)
		c.Respond(http.StatusConflict, response.Envelope{Message: noticeDuplicate})
		return
	case err != nil:
		fail(c, err)
		return
	}
	ac.sessions.Flash(c.W, c.R, noticeRegistered)
	c.Respond(http.StatusCreated, response.Envelope{Message: noticeRegistered, Data: user})
}

func (ac *AuthController) Login(c *ctx.Context) {
	var form forms.CredentialsForm
	if !c.Bind(&form) {
		return
	}
	user, err := ac.auth.Login(c.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials):
		ac.sessions.Flash(c.W, c.R, noticeBadLogin)
		c.Respond(http.StatusUnauthorized, response.Envelope{Message: noticeBadLogin})
		return
	case err != nil:
		fail(c, err)
		return
	}
	if err := ac.sessions.Login(c.W, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

// LoginView is where browsers land when a page needs a signed-in user.
func (ac *AuthController) LoginView(c *ctx.Context) {
	c.Respond(http.StatusOK, response.Envelope{
		Data:    map[string][]string{"fields": {"email", "password"}},
		Flashes: ac.sessions.Flashes(c.W, c.R),
	})
}

func (ac *AuthController) Logout(c *ctx.Context) {
	if err := ac.sessions.Logout(c.W, c.R); err != nil {
		// the cookie is already cleared; only the replay guard failed
		logger.WithCtx(c.Context()).Warn("logout: revoke failed", "error", err)
	}
	if wantsHTML(c.R) {
		c.Redirect(http.StatusSeeOther, "/api/cafes")
		return
	}
	c.W.WriteHeader(http.StatusNoContent)
}

func (ac *AuthController) Me(c *ctx.Context) {
	p := c.Principal()
	view := PrincipalView{Authenticated: p.IsAuthenticated(), UserID: p.UserID}
	if p.IsAuthenticated() {
		id, ok, err := ac.admins.AdminID(c.Context())
		if err != nil {
			fail(c, err)
			return
		}
		view.Admin = ok && id == p.UserID
	}
	c.Success(view)
}

func (ac *AuthController) Flashes(c *ctx.Context) {
	flashes := ac.sessions.Flashes(c.W, c.R)
	if flashes == nil {
		flashes = []string{}
	}
	c.Success(flashes)
}
