// Package controllers adapts the cafe registry and the auth service to HTTP.
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/pkg/ctx"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
)

// Notices is the flash side of the session manager.
type Notices interface {
	Flash(w http.ResponseWriter, r *http.Request, msg string)
	Flashes(w http.ResponseWriter, r *http.Request) []string
}

// fail maps a service error onto a response. Anything outside the taxonomy
// is logged and answered with a bare 500.
func fail(c *ctx.Context, err error) {
	var invalid *errs.ValidationError
	switch {
	case errors.Is(err, errs.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, errs.ErrNotFound):
		c.NotFound()
	case errors.As(err, &invalid):
		c.ValidationError(invalid.Fields)
	case errors.Is(err, errs.ErrDuplicateName):
		c.Error(http.StatusConflict, errs.ErrDuplicateName.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
