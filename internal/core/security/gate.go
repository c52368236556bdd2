package security

import "context"

type authKey struct{}

// WithAuthorization marks ctx as carrying an authentication decision,
// normally set by the HTTP auth middleware once the caller's key checks out.
func WithAuthorization(ctx context.Context, authorized bool) context.Context {
	return context.WithValue(ctx, authKey{}, authorized)
}

// Gate is the engine's authentication gate: it reads the decision the
// transport layer attached to the context. A context without a decision
// is unauthorized.
type Gate struct{}

func (Gate) IsAuthorized(ctx context.Context) bool {
	ok, _ := ctx.Value(authKey{}).(bool)
	return ok
}

// AllowAll authorizes every caller. Test wiring only.
type AllowAll struct{}

func (AllowAll) IsAuthorized(context.Context) bool { return true }
