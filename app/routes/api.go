// Package routes binds the controllers to URLs.
package routes

import (
	"github.com/shashiranjanraj/cafehub/app/controllers"
	"github.com/shashiranjanraj/cafehub/pkg/ctx"
	"github.com/shashiranjanraj/cafehub/pkg/guard"
	"github.com/shashiranjanraj/cafehub/pkg/router"
)

const detailLoginNotice = "Please log in to view cafe details!"

// Deps are the handlers and collaborators the route table needs. A zero
// Deps is enough to list routes; handlers are resolved only when served.
type Deps struct {
	Cafes   *controllers.CafeController
	Auth    *controllers.AuthController
	Flasher guard.Flasher
	Admins  guard.AdminLookup
}

func RegisterAPI(r *router.Router, d Deps) {
	signedIn := guard.Middleware(guard.RequireAuthenticated(),
		guard.RedirectTo("/api/login", detailLoginNotice, d.Flasher))
	admin := guard.Middleware(guard.RequireAdmin(d.Admins))

	api := r.Group("/api")

	api.Get("/cafes", "cafes.index", ctx.Wrap(d.Cafes.Index))
	api.Get("/cafes/{id}", "cafes.show", ctx.Wrap(d.Cafes.Show), signedIn)

	manage := api.Group("/cafes", admin)
	manage.Post("/", "cafes.store", ctx.Wrap(d.Cafes.Store))
	manage.Delete("/{id}", "cafes.destroy", ctx.Wrap(d.Cafes.Destroy))
	manage.Post("/{id}/delete", "cafes.destroy.form", ctx.Wrap(d.Cafes.Destroy))

	api.Post("/register", "auth.register", ctx.Wrap(d.Auth.Register))
	api.Get("/login", "auth.login.view", ctx.Wrap(d.Auth.LoginView))
	api.Post("/login", "auth.login", ctx.Wrap(d.Auth.Login))
	api.Post("/logout", "auth.logout", ctx.Wrap(d.Auth.Logout))
	api.Get("/me", "auth.me", ctx.Wrap(d.Auth.Me))
	api.Get("/flashes", "flashes", ctx.Wrap(d.Auth.Flashes))
}
