package service

import "context"

// syncGate decides whether the engine may touch the network at all.
type syncGate struct {
	auth AuthProvider
}

// Authorized returns the token to send with remote calls, or false when
// nobody is signed in. Callers treat false as a silent no-op.
func (g syncGate) Authorized(ctx context.Context) (string, bool) {
	if g.auth == nil || !g.auth.IsAuthenticated(ctx) {
		return "", false
	}

	token := g.auth.CurrentToken(ctx)
	return token, token != ""
}

func (g syncGate) currentUserID(ctx context.Context) int64 {
	if g.auth == nil {
		return 0
	}
	return g.auth.CurrentUserID(ctx)
}
