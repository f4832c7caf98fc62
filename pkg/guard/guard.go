// Package guard decides whether a principal may run an operation.
//
// A Policy is a plain function. It is applied either around a handler via
// Middleware or around a service call via Authorize:
//
//	r.Post("/api/cafes", "cafes.store", h, guard.Middleware(guard.RequireAdmin(users)))
//
//	err := guard.Authorize(ctx, actor, guard.RequireAdmin(users), func() error {
//	    return repo.Delete(ctx, id)
//	})
package guard

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
	"github.com/shashiranjanraj/cafehub/pkg/session"
)

// ErrForbidden is the single rejection returned by every policy.
var ErrForbidden = errors.New("forbidden")

// Policy returns nil to allow p, ErrForbidden otherwise.
type Policy func(ctx context.Context, p session.Principal) error

// AdminLookup reports the id of the privileged account: the lowest user id.
// ok is false when no users exist.
type AdminLookup interface {
	AdminID(ctx context.Context) (id uint, ok bool, err error)
}

func reject(policy string) error {
	metrics.GuardRejections.WithLabelValues(policy).Inc()
	return ErrForbidden
}

// RequireAuthenticated allows any signed-in principal.
func RequireAuthenticated() Policy {
	return func(_ context.Context, p session.Principal) error {
		if !p.IsAuthenticated() {
			return reject("authenticated")
		}
		return nil
	}
}

// RequireAdmin allows only the principal holding the lowest user id. The
// lookup runs on every evaluation; an empty store or a failed lookup rejects.
func RequireAdmin(users AdminLookup) Policy {
	return func(ctx context.Context, p session.Principal) error {
		if !p.IsAuthenticated() {
			return reject("admin")
		}

		adminID, ok, err := users.AdminID(ctx)
		if err != nil {
			logger.WithCtx(ctx).Error("guard: admin lookup failed", "user_id", p.UserID, "error", err)
			return reject("admin")
		}
		if !ok || adminID != p.UserID {
			return reject("admin")
		}
		return nil
	}
}

// All allows p only when every policy does. Evaluation stops at the first
// rejection.
func All(policies ...Policy) Policy {
	return func(ctx context.Context, p session.Principal) error {
		for _, policy := range policies {
			if err := policy(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Authorize runs op only when policy allows p. A rejection is returned as is
// and op never starts.
func Authorize(ctx context.Context, p session.Principal, policy Policy, op func() error) error {
	if err := policy(ctx, p); err != nil {
		return err
	}
	return op()
}
