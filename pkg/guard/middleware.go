package guard

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/cafehub/pkg/response"
	"github.com/shashiranjanraj/cafehub/pkg/session"
)

// Flasher queues a one-shot notice for the next request.
type Flasher interface {
	Flash(w http.ResponseWriter, r *http.Request, msg string)
}

type options struct {
	redirect string
	notice   string
	flasher  Flasher
}

// Option customises Middleware.
type Option func(*options)

// RedirectTo sends rejected browser requests (Accept: text/html) to path with
// notice flashed, instead of the JSON 403.
func RedirectTo(path, notice string, f Flasher) Option {
	return func(o *options) {
		o.redirect = path
		o.notice = notice
		o.flasher = f
	}
}

// Middleware evaluates policy against the principal stored by
// session.Manager.Middleware before the handler runs. Every rejection gets
// the same 403 body whatever the cause.
func Middleware(policy Policy, opts ...Option) func(http.Handler) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := session.PrincipalFrom(r.Context())
			if err := policy(r.Context(), p); err != nil {
				if o.redirect != "" && wantsHTML(r) {
					if o.notice != "" && o.flasher != nil {
						o.flasher.Flash(w, r, o.notice)
					}
					http.Redirect(w, r, o.redirect, http.StatusSeeOther)
					return
				}
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
