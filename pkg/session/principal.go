package session

import "context"

// Principal is the identity attached to a request. The zero value is the
// anonymous visitor.
type Principal struct {
	UserID uint
}

// Anonymous is the principal of every request without a valid session.
var Anonymous = Principal{}

// Authenticated returns the principal for a signed-in user.
func Authenticated(userID uint) Principal {
	return Principal{UserID: userID}
}

func (p Principal) IsAuthenticated() bool { return p.UserID != 0 }

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by Middleware, or Anonymous.
func PrincipalFrom(ctx context.Context) Principal {
	if ctx == nil {
		return Anonymous
	}
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
