package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultCheckTimeout bounds the admin predicate when none is configured.
const DefaultCheckTimeout = 5 * time.Second

// AdminChecker answers whether a user holds an active admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AdminCheckerFunc adapts a function to AdminChecker.
type AdminCheckerFunc func(ctx context.Context, userID string) (bool, error)

func (f AdminCheckerFunc) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return f(ctx, userID)
}

// Decision is the result of Guard.Check: either Authorized or Denied.
type Decision interface {
	decision()
}

// Authorized lets the request through.
type Authorized struct {
	Identity Identity
}

// Denied rejects the request with an HTTP status.
type Denied struct {
	Status int
	Reason error
}

func (Authorized) decision() {}
func (Denied) decision()     {}

// Guard combines token verification with the admin predicate.
type Guard struct {
	verifier *TokenVerifier
	admins   AdminChecker
	timeout  time.Duration
}

// NewGuard returns a guard. A non-positive timeout uses DefaultCheckTimeout.
func NewGuard(verifier *TokenVerifier, admins AdminChecker, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Guard{verifier: verifier, admins: admins, timeout: timeout}
}

// Check decides whether token belongs to an active admin.
//
//	missing token          401
//	invalid or expired     401
//	predicate error        503
//	predicate timed out    504
//	not an admin           403
func (g *Guard) Check(ctx context.Context, token string) Decision {
	id, err := g.verifier.Verify(token)
	if err != nil {
		return Denied{Status: http.StatusUnauthorized, Reason: err}
	}

	ok, err := g.isAdmin(ctx, id.UserID)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Denied{Status: http.StatusGatewayTimeout, Reason: fmt.Errorf("admin check timeout: %w", err)}
	case err != nil:
		return Denied{Status: http.StatusServiceUnavailable, Reason: fmt.Errorf("admin check: %w", err)}
	case !ok:
		return Denied{Status: http.StatusForbidden, Reason: ErrNotAdmin}
	}
	return Authorized{Identity: id}
}

type checkResult struct {
	ok  bool
	err error
}

// isAdmin races the predicate against the timeout; a predicate that
// ignores its context still cannot hold the request past the deadline.
func (g *Guard) isAdmin(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan checkResult, 1)
	go func() {
		ok, err := g.admins.IsAdmin(ctx, userID)
		done <- checkResult{ok, err}
	}()

	select {
	case res := <-done:
		return res.ok, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
