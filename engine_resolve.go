package authgate

import (
	"context"
	"errors"
	"time"
)

// Resolve maps an inbound bearer token to its account. The token must pass
// signature, structural, and expiry validation, and must additionally be
// byte-identical to the account's stored token: a cryptographically valid
// token superseded by a later login, or cleared by a password change, fails
// with [ErrUnauthorized]. The stored tokenExpiry is enforced against the
// current time as well, so a stored record that outlives its token cannot
// resolve even if the embedded exp claim were to diverge.
func (e *Engine) Resolve(ctx context.Context, token string) (*Account, error) {
	if e == nil || e.store == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	claims, err := e.tokens.ParseAccess(token)
	if err != nil {
		e.metricInc(MetricResolveFailure)
		return nil, ErrUnauthorized
	}

	account, err := e.store.FindByExternalIDAndToken(ctx, claims.UID, token)
	if err != nil {
		e.metricInc(MetricResolveFailure)
		if errors.Is(err, ErrStoreNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if account.TokenExpiry == 0 || time.Now().Unix() >= account.TokenExpiry {
		e.metricInc(MetricResolveFailure)
		return nil, ErrUnauthorized
	}

	e.metricInc(MetricResolveSuccess)
	e.metricObserve(MetricResolveLatency, time.Since(start))

	return account, nil
}
